package social

import (
	"crypto/md5"
	"encoding/hex"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// Fingerprint returns the cache key of a card: the md5 hex digest of site
// name, title and description concatenated in that order.
//
// The header image is not part of the key. Two pages with the same text but
// different header images share one cached card.
func Fingerprint(siteName, title, description string) string {
	sum := md5.Sum([]byte(siteName + title + description))
	return hex.EncodeToString(sum[:])
}

// Cache stores rendered cards as <fingerprint>.png below a directory. The
// presence of the file is the cache entry; there is no index and no locking.
// Concurrent renders of one fingerprint may both run and write identical bytes.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created on first write.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the file location for fingerprint fp.
func (c *Cache) Path(fp string) string {
	return filepath.Join(c.dir, fp+".png")
}

// GetOrRender returns the cached card for pc, calling render and storing its
// result only when no file exists yet.
func (c *Cache) GetOrRender(pc PageContext, render func() (image.Image, error)) (path string, hit bool, err error) {
	fp := Fingerprint(pc.SiteName, pc.Title, pc.Description)
	path = c.Path(fp)

	if _, err := os.Stat(path); err == nil {
		return path, true, nil
	}

	img, err := render()
	if err != nil {
		if errors.IsClassified(err) {
			return "", false, err
		}
		return "", false, errors.RenderError("render card").
			WithCause(err).WithContext("fingerprint", fp).Build()
	}
	if err := c.store(path, img); err != nil {
		return "", false, err
	}
	return path, false, nil
}

// store writes img to path through a temporary file so readers never see a
// partial PNG.
func (c *Cache) store(path string, img image.Image) error {
	fail := func(err error, msg string) error {
		return errors.WrapError(err, errors.CategoryFileSystem, msg).
			Fatal().WithContext("path", path).Build()
	}

	if err := os.MkdirAll(c.dir, 0o750); err != nil {
		return fail(err, "create cache directory")
	}
	tmp, err := os.CreateTemp(c.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fail(err, "create cache file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return fail(err, "encode card")
	}
	if err := tmp.Close(); err != nil {
		return fail(err, "write cache file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(err, "store cache file")
	}
	return nil
}
