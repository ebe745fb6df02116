// Package page models the source files and Markdown pages that flow through
// the plugin hooks during a site build.
package page

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/docplugins/internal/frontmatter"
)

// File is a source file discovered under the docs directory.
type File struct {
	// SrcPath is slash-separated and relative to the docs directory.
	SrcPath string
	// AbsPath is the file's location on disk.
	AbsPath string
}

// IsMarkdown reports whether the file is rendered as a page.
func (f File) IsMarkdown() bool {
	switch strings.ToLower(path.Ext(f.SrcPath)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// isIndex reports whether the page is the index of its directory.
func (f File) isIndex() bool {
	name := strings.TrimSuffix(path.Base(f.SrcPath), path.Ext(f.SrcPath))
	return strings.EqualFold(name, "index") || strings.EqualFold(name, "readme")
}

// DestPath returns the slash-separated output path relative to the site
// directory. Pages use directory URLs: guide/setup.md becomes
// guide/setup/index.html and guide/index.md becomes guide/index.html.
func (f File) DestPath() string {
	if !f.IsMarkdown() {
		return f.SrcPath
	}
	dir := path.Dir(f.SrcPath)
	if f.isIndex() {
		return path.Join(dir, "index.html")
	}
	stem := strings.TrimSuffix(path.Base(f.SrcPath), path.Ext(f.SrcPath))
	return path.Join(dir, stem, "index.html")
}

// URL returns the site-relative URL of the file without a leading slash.
func (f File) URL() string {
	dest := f.DestPath()
	if !f.IsMarkdown() {
		return dest
	}
	dir := path.Dir(dest)
	if dir == "." {
		return ""
	}
	return dir + "/"
}

// Stem returns SrcPath without its extension.
func (f File) Stem() string {
	return strings.TrimSuffix(f.SrcPath, path.Ext(f.SrcPath))
}

// Page is a Markdown file being processed.
type Page struct {
	File File
	// Title is the inferred title: first level-one heading or the file name.
	Title string
	// Meta is the decoded front matter. Plugins may add entries; the `meta`
	// key holds a list of <meta> attribute maps for the page template.
	Meta frontmatter.Meta
	// Markdown is the body with front matter removed.
	Markdown []byte
	// Content is the rendered HTML fragment.
	Content string

	warned map[string]struct{}
}

// FirstWarning records key and reports whether it is new for this page.
// Content rewriters reparse the page one after another; this keeps a
// problem they all see to a single warning.
func (p *Page) FirstWarning(key string) bool {
	if _, ok := p.warned[key]; ok {
		return false
	}
	if p.warned == nil {
		p.warned = make(map[string]struct{})
	}
	p.warned[key] = struct{}{}
	return true
}

// MetaTags returns the entries stored under the `meta` key.
func (p *Page) MetaTags() []map[string]string {
	return p.Meta.Entries("meta")
}

// DisplayTitle is the explicit front matter title when it is a string,
// otherwise the inferred title.
func (p *Page) DisplayTitle() string {
	if t, ok, err := p.Meta.String("title"); ok && err == nil {
		return t
	}
	return p.Title
}
