package exclude

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

type countingRecorder struct {
	metrics.NoopRecorder
	excluded int
}

func (c *countingRecorder) IncExcluded() { c.excluded++ }

func TestFilterDefaultPatterns(t *testing.T) {
	f, err := NewFilter(config.Default().Exclude.Patterns)
	require.NoError(t, err)

	tests := []struct {
		path     string
		excluded bool
	}{
		{"guide/.shared", true},
		{"guide/.shared/snippet.md", true},
		{"a/b/.shared/deep/x.md", true},
		{"guide/shared/x.md", false},
		{"guide/.sharedfoo/x.md", false},
		{"guide/intro.md", false},
		// Patterns require a directory before .shared.
		{".shared/top.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, got := f.Match(tt.path)
			assert.Equal(t, tt.excluded, got)
		})
	}
}

func TestGlobToRegex(t *testing.T) {
	assert.Equal(t, `^.*.*/\.shared$`, globToRegex("**/.shared"))
	assert.Equal(t, `^draft.\.md$`, globToRegex("draft?.md"))
	assert.Equal(t, `^v[^0-9]\.md$`, globToRegex("v[!0-9].md"))
	assert.Equal(t, `^a\[b$`, globToRegex("a[b"))
}

func TestFilterCharacterClasses(t *testing.T) {
	f, err := NewFilter([]string{"notes/v[0-9].md"})
	require.NoError(t, err)

	_, ok := f.Match("notes/v1.md")
	assert.True(t, ok)
	_, ok = f.Match("notes/vx.md")
	assert.False(t, ok)
}

func TestNilFilterMatchesNothing(t *testing.T) {
	var f *Filter
	_, ok := f.Match("anything")
	assert.False(t, ok)
}

func TestPluginOnFiles(t *testing.T) {
	rec := &countingRecorder{}
	p, err := New([]string{"drafts/*", "**/.shared/*"}, rec)
	require.NoError(t, err)

	pc := plugin.NewPluginContext(context.Background(), nil, config.Default(), "b")
	in := []page.File{
		{SrcPath: "index.md"},
		{SrcPath: "drafts/wip.md"},
		{SrcPath: "guide/.shared/part.md"},
		{SrcPath: "guide/setup.md"},
	}
	out, err := p.OnFiles(pc, in)
	require.NoError(t, err)

	assert.Equal(t, []page.File{{SrcPath: "index.md"}, {SrcPath: "guide/setup.md"}}, out)
	assert.Len(t, in, 4, "input slice is not modified")
	assert.Equal(t, "drafts/wip.md", in[1].SrcPath)
	assert.Equal(t, 2, rec.excluded)
}

func TestNewRejectsInvalidPattern(t *testing.T) {
	_, err := New([]string{"[z-a].md"}, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
