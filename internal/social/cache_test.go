package social

import (
	stderrors "errors"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Fingerprint("", "", ""))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", Fingerprint("a", "b", "c"))
	// Plain concatenation: the boundaries between fields are not encoded.
	assert.Equal(t, Fingerprint("ab", "c", ""), Fingerprint("a", "bc", ""))
	assert.NotEqual(t, Fingerprint("Cosmos", "Intro", "x"), Fingerprint("Cosmos", "Intro", "y"))
}

func randomImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = byte(rand.IntN(256))
	}
	return img
}

func TestGetOrRenderIsDeterministic(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "cards"))
	pc := PageContext{SiteName: "Cosmos", Title: "Intro to Widgets", Description: "A short guide."}

	calls := 0
	render := func() (image.Image, error) {
		calls++
		return randomImage(), nil
	}

	first, hit, err := c.GetOrRender(pc, render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, c.Path(Fingerprint(pc.SiteName, pc.Title, pc.Description)), first)
	stored, err := os.ReadFile(first)
	require.NoError(t, err)

	second, hit, err := c.GetOrRender(pc, render)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	again, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, stored, again)
}

func TestGetOrRenderIgnoresHeaderImage(t *testing.T) {
	c := NewCache(t.TempDir())
	a := PageContext{SiteName: "s", Title: "t", Description: "d", HeaderImagePath: "a.png"}
	b := a
	b.HeaderImagePath = "b.png"

	calls := 0
	render := func() (image.Image, error) { calls++; return randomImage(), nil }

	pa, _, err := c.GetOrRender(a, render)
	require.NoError(t, err)
	pb, hit, err := c.GetOrRender(b, render)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, pa, pb)
	assert.Equal(t, 1, calls)
}

func TestGetOrRenderEvictedFileRerenders(t *testing.T) {
	c := NewCache(t.TempDir())
	pc := PageContext{Title: "t"}
	calls := 0
	render := func() (image.Image, error) { calls++; return randomImage(), nil }

	p, _, err := c.GetOrRender(pc, render)
	require.NoError(t, err)
	require.NoError(t, os.Remove(p))

	_, hit, err := c.GetOrRender(pc, render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestGetOrRenderWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	c := NewCache(filepath.Join(blocker, "cards"))
	_, _, err := c.GetOrRender(PageContext{Title: "t"}, func() (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	assert.Equal(t, errors.SeverityFatal, errors.GetSeverity(err))
}

func TestGetOrRenderRenderFailure(t *testing.T) {
	c := NewCache(t.TempDir())

	_, _, err := c.GetOrRender(PageContext{Title: "a"}, func() (image.Image, error) {
		return nil, stderrors.New("no glyphs")
	})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryRender))

	classified := errors.FileSystemError("read image").Build()
	_, _, err = c.GetOrRender(PageContext{Title: "b"}, func() (image.Image, error) {
		return nil, classified
	})
	assert.Same(t, classified, err)

	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "failed renders leave no cache entry")
}
