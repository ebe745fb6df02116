package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTitleAndHeader(t *testing.T) {
	body := []byte("Intro paragraph.\n\n# Intro to *Widgets*\n\n![banner](img/plain.png)\n\n![hero](img/h.png){ .header }\n\n# Second\n")

	a := New().Analyze(body, ".header")
	assert.Equal(t, "Intro to Widgets", a.Title)
	assert.Equal(t, "img/h.png", a.HeaderImage)
}

func TestAnalyzeWithoutMarkers(t *testing.T) {
	a := New().Analyze([]byte("## Only H2\n\n![x](a.png)\n"), ".header")
	assert.Empty(t, a.Title)
	assert.Empty(t, a.HeaderImage)
}

func TestHeaderImageMarkerKinds(t *testing.T) {
	md := New()
	tests := []struct {
		name   string
		body   string
		marker string
		want   string
	}{
		{"class among others", "![a](a.png){ .wide .header }\n", ".header", "a.png"},
		{"id marker", "![a](a.png){#hero}\n", "#hero", "a.png"},
		{"attribute marker", "![a](a.png){ data-header=true }\n", "data-header", "a.png"},
		{"space before list is not an attribute list", "![a](a.png) { .header }\n", ".header", ""},
		{"empty marker disables lookup", "![a](a.png){ .header }\n", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := md.Parse([]byte(tt.body))
			assert.Equal(t, tt.want, HeaderImage(root, tt.marker))
		})
	}
}

func TestRenderAppliesImageAttributes(t *testing.T) {
	out, err := New().Render([]byte("![hero](img/h.png){ .header width=400 }\n"))
	require.NoError(t, err)

	assert.Contains(t, out, `src="img/h.png"`)
	assert.Contains(t, out, `class="header"`)
	assert.Contains(t, out, `width="400"`)
	assert.NotContains(t, out, "{")
}

func TestRenderKeepsRawHTML(t *testing.T) {
	out, err := New().Render([]byte("<img alt=\"type:video\" src=\"assets/clip.mp4\">\n"))
	require.NoError(t, err)
	assert.Contains(t, out, `<img alt="type:video" src="assets/clip.mp4">`)
}

func TestParseAttributeList(t *testing.T) {
	attrs, ok := ParseAttributeList(` .a .b #id title="two words" `)
	require.True(t, ok)
	assert.Equal(t, []Attribute{
		{Name: "id", Value: "id"},
		{Name: "title", Value: "two words"},
		{Name: "class", Value: "a b"},
	}, attrs)

	_, ok = ParseAttributeList("not-an-attribute")
	assert.False(t, ok)
	_, ok = ParseAttributeList("   ")
	assert.False(t, ok)
}

func TestTitleFromFilename(t *testing.T) {
	tests := map[string]string{
		"index.md":                  "Home",
		"guide/index.md":            "Guide",
		"getting-started.md":        "Getting Started",
		"api/rest_API-reference.md": "Rest API Reference",
		"nested/dir/README.md":      "Dir",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, TitleFromFilename(in))
		})
	}
}
