package social

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/frontmatter"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.BaseDir = t.TempDir()
	cfg.Site.Name = "Cosmos"
	cfg.Social.Concurrency = 2
	return cfg
}

func newPage(cfg *config.Config, src string, meta frontmatter.Meta, body string) *page.Page {
	return &page.Page{
		File:     page.File{SrcPath: src, AbsPath: filepath.Join(cfg.DocsDir(), filepath.FromSlash(src))},
		Title:    "Inferred",
		Meta:     meta,
		Markdown: []byte(body),
	}
}

func metaValue(entries []map[string]string, key string) (string, bool) {
	for _, e := range entries {
		if e["property"] == key || e["name"] == key {
			return e["content"], true
		}
	}
	return "", false
}

func decodeCard(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

func runSocial(t *testing.T, cfg *config.Config, pages ...*page.Page) error {
	t.Helper()
	p := New(nil)
	require.NoError(t, p.Validate(cfg))

	pc := plugin.NewPluginContext(context.Background(), nil, cfg, "build-1").ForPlugin(PluginName)
	require.NoError(t, p.OnConfig(pc))
	for _, pg := range pages {
		if err := p.OnPageMarkdown(pc, pg); err != nil {
			_ = p.OnPostBuild(pc)
			return err
		}
	}
	return p.OnPostBuild(pc)
}

func TestPluginWritesCardAndMeta(t *testing.T) {
	cfg := testConfig(t)
	cfg.Site.URL = "https://docs.example.com/"

	pg := newPage(cfg, "guide/setup.md", frontmatter.Meta{
		"title":       "Intro to Widgets",
		"description": "A short guide.",
		"meta":        []any{map[string]any{"name": "robots", "content": "index"}},
	}, "# Setup\n")

	require.NoError(t, runSocial(t, cfg, pg))

	card := filepath.Join(cfg.SiteDir(), "assets", "images", "social", "guide", "setup.png")
	assert.Equal(t, CardBounds, decodeCard(t, card).Bounds())

	fp := Fingerprint("Cosmos", "Intro to Widgets", "A short guide.")
	assert.FileExists(t, filepath.Join(cfg.Path(cfg.Social.CacheDir), fp+".png"))

	entries := pg.MetaTags()
	require.Len(t, entries, 13)
	assert.Equal(t, "robots", entries[0]["name"], "existing entries kept first")

	for key, want := range map[string]string{
		"og:type":             "website",
		"og:title":            "Intro to Widgets",
		"og:description":      "A short guide.",
		"og:image":            "https://docs.example.com/assets/images/social/guide/setup.png",
		"og:image:type":       "image/png",
		"og:image:width":      "1200",
		"og:image:height":     "630",
		"og:url":              "https://docs.example.com/guide/setup/",
		"twitter:card":        "summary_large_image",
		"twitter:title":       "Intro to Widgets",
		"twitter:description": "A short guide.",
		"twitter:image":       "https://docs.example.com/assets/images/social/guide/setup.png",
	} {
		got, ok := metaValue(entries, key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	assert.Equal(t, "og:type", entries[1]["property"])
	assert.Equal(t, "twitter:card", entries[9]["name"])
}

func TestPluginTitleAndDescriptionFallbacks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Site.Description = "Site wide"

	withSite := newPage(cfg, "index.md", frontmatter.Meta{}, "")
	require.NoError(t, runSocial(t, cfg, withSite))

	title, _ := metaValue(withSite.MetaTags(), "og:title")
	desc, _ := metaValue(withSite.MetaTags(), "og:description")
	img, _ := metaValue(withSite.MetaTags(), "og:image")
	assert.Equal(t, "Inferred", title)
	assert.Equal(t, "Site wide", desc)
	assert.Equal(t, "/assets/images/social/index.png", img)
	_, hasURL := metaValue(withSite.MetaTags(), "og:url")
	assert.False(t, hasURL)

	cfg.Site.Description = ""
	bare := newPage(cfg, "other.md", nil, "")
	require.NoError(t, runSocial(t, cfg, bare))
	desc, ok := metaValue(bare.MetaTags(), "og:description")
	assert.True(t, ok)
	assert.Empty(t, desc)
}

func TestPluginRejectsNonTextFrontMatter(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"title list", "title", []any{"a", "b"}},
		{"description list", "description", []any{"a", "b"}},
		{"title null", "title", nil},
		{"description null", "description", nil},
	}
	for _, tt := range tests {
		key := tt.key
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			pg := newPage(cfg, "bad.md", frontmatter.Meta{key: tt.value}, "")

			err := runSocial(t, cfg, pg)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
			assert.Empty(t, pg.MetaTags())

			ce, ok := errors.AsClassified(err)
			require.True(t, ok)
			got, _ := ce.Context().GetString("key")
			assert.Equal(t, key, got)
		})
	}
}

func TestPluginHeaderImage(t *testing.T) {
	cfg := testConfig(t)
	writePNG(t, filepath.Join(cfg.DocsDir(), "guide", "img", "h.png"), 120, 90, color.RGBA{R: 255, A: 255})

	pg := newPage(cfg, "guide/widgets.md", frontmatter.Meta{"title": "Widgets"},
		"# Widgets\n\n![banner](img/h.png){.header}\n")
	require.NoError(t, runSocial(t, cfg, pg))

	card := decodeCard(t, filepath.Join(cfg.SiteDir(), "assets", "images", "social", "guide", "widgets.png"))
	assert.True(t, isRed(card.At(CardWidth-1, CardHeight-1)))
}

func TestPluginMissingHeaderImageFailsBuild(t *testing.T) {
	cfg := testConfig(t)
	pg := newPage(cfg, "guide/widgets.md", nil, "![banner](img/missing.png){.header}\n")

	err := runSocial(t, cfg, pg)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestPluginValidate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Social.Concurrency = 0
	assert.True(t, errors.HasCategory(New(nil).Validate(cfg), errors.CategoryConfig))

	cfg = testConfig(t)
	cfg.Social.Colors.Text = "not-a-color"
	assert.True(t, errors.HasCategory(New(nil).Validate(cfg), errors.CategoryConfig))
}

func TestResolveHeader(t *testing.T) {
	cfg := testConfig(t)
	f := page.File{SrcPath: "guide/setup.md"}

	assert.Equal(t, filepath.Join(cfg.DocsDir(), "guide", "img", "h.png"), resolveHeader(cfg, f, "img/h.png?v=2"))
	assert.Equal(t, filepath.Join(cfg.DocsDir(), "img", "h.png"), resolveHeader(cfg, f, "/img/h.png"))
	assert.Equal(t, filepath.Join(cfg.DocsDir(), "shared.png"), resolveHeader(cfg, f, "../shared.png"))
	assert.Empty(t, resolveHeader(cfg, f, "https://cdn.example.com/h.png"))
}

func TestPluginReportsCardsAndCacheHits(t *testing.T) {
	cfg := testConfig(t)
	cfg.Social.Concurrency = 1

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	pc := plugin.NewPluginContext(context.Background(), logger, cfg, "build-1").ForPlugin(PluginName)

	p := New(nil)
	require.NoError(t, p.OnConfig(pc))
	meta := frontmatter.Meta{"title": "Shared", "description": "Same card"}
	require.NoError(t, p.OnPageMarkdown(pc, newPage(cfg, "a.md", meta, "")))
	require.NoError(t, p.OnPageMarkdown(pc, newPage(cfg, "b.md", meta, "")))
	require.NoError(t, p.OnPostBuild(pc))

	assert.Contains(t, logs.String(), "Social cards written")
	assert.Contains(t, logs.String(), "count=2")
	assert.Contains(t, logs.String(), "cache_hits=1")
	assert.FileExists(t, filepath.Join(cfg.SiteDir(), "assets", "images", "social", "a.png"))
	assert.FileExists(t, filepath.Join(cfg.SiteDir(), "assets", "images", "social", "b.png"))
}
