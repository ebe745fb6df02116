package plugin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docplugins/internal/config"
	ferrors "git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/frontmatter"
	"git.home.luguber.info/inful/docplugins/internal/page"
)

type recordingPlugin struct {
	*stubPlugin
	calls   *[]string
	rewrite func(string) (string, bool)
	fail    error
}

func (r *recordingPlugin) OnConfig(*PluginContext) error {
	*r.calls = append(*r.calls, r.metadata.Name+":config")
	return r.fail
}

func (r *recordingPlugin) OnFiles(_ *PluginContext, files []page.File) ([]page.File, error) {
	*r.calls = append(*r.calls, r.metadata.Name+":files")
	return files[1:], nil
}

func (r *recordingPlugin) OnPageMarkdown(_ *PluginContext, p *page.Page) error {
	*r.calls = append(*r.calls, r.metadata.Name+":markdown")
	p.Meta.AppendEntry("meta", map[string]string{"name": r.metadata.Name})
	return nil
}

func (r *recordingPlugin) OnPageContent(_ *PluginContext, _ *page.Page, html string) (string, bool, error) {
	*r.calls = append(*r.calls, r.metadata.Name+":content")
	if r.rewrite == nil {
		return "", false, nil
	}
	out, changed := r.rewrite(html)
	return out, changed, nil
}

func (r *recordingPlugin) OnPostBuild(*PluginContext) error {
	*r.calls = append(*r.calls, r.metadata.Name+":post")
	return nil
}

func newPluginContext() *PluginContext {
	return NewPluginContext(context.Background(), nil, config.Default(), "build-1")
}

func TestHostDispatchOrder(t *testing.T) {
	var calls []string
	upper := &recordingPlugin{
		stubPlugin: newStub("upper", "v1", PluginTypeRewrite, 20),
		calls:      &calls,
		rewrite:    func(s string) (string, bool) { return strings.ToUpper(s), true },
	}
	noop := &recordingPlugin{stubPlugin: newStub("noop", "v1", PluginTypeRewrite, 10), calls: &calls}

	registry := NewRegistry()
	registerAll(t, registry, upper, noop)
	host := NewHost(registry)
	pc := newPluginContext()

	require.NoError(t, host.Config(pc))
	assert.Equal(t, []string{"noop:config", "upper:config"}, calls)

	files, err := host.Files(pc, []page.File{{SrcPath: "a.md"}, {SrcPath: "b.md"}, {SrcPath: "c.md"}})
	require.NoError(t, err)
	assert.Equal(t, []page.File{{SrcPath: "c.md"}}, files)

	p := &page.Page{File: files[0], Meta: frontmatter.Meta{}, Content: "<p>hi</p>"}
	require.NoError(t, host.PageMarkdown(pc, p))
	require.NoError(t, host.PageContent(pc, p))
	require.NoError(t, host.PostBuild(pc))

	assert.Equal(t, "<P>HI</P>", p.Content)
	assert.Len(t, p.MetaTags(), 2)
	assert.Equal(t, []string{
		"noop:config", "upper:config",
		"noop:files", "upper:files",
		"noop:markdown", "upper:markdown",
		"noop:content", "upper:content",
		"noop:post", "upper:post",
	}, calls)
}

func TestHostUnchangedContentIsKept(t *testing.T) {
	var calls []string
	registry := NewRegistry()
	registerAll(t, registry, &recordingPlugin{
		stubPlugin: newStub("blank", "v1", PluginTypeRewrite, 0),
		calls:      &calls,
		rewrite:    func(string) (string, bool) { return "", false },
	})

	p := &page.Page{Meta: frontmatter.Meta{}, Content: "<p>keep</p>"}
	require.NoError(t, NewHost(registry).PageContent(newPluginContext(), p))
	assert.Equal(t, "<p>keep</p>", p.Content)
}

func TestHostWrapsErrorsKeepingClassification(t *testing.T) {
	var calls []string
	cause := ferrors.FileSystemError("cannot create cache dir").Build()
	registry := NewRegistry()
	registerAll(t, registry, &recordingPlugin{stubPlugin: newStub("social", "v1", PluginTypeAsset, 0), calls: &calls, fail: cause})

	err := NewHost(registry).Config(newPluginContext())
	require.Error(t, err)

	var perr *PluginError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "social", perr.PluginName)
	assert.Equal(t, HookConfig, perr.Operation)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestPluginContextForPlugin(t *testing.T) {
	pc := newPluginContext()
	view := pc.ForPlugin("social")

	assert.Equal(t, pc.BuildID, view.BuildID)
	assert.Same(t, pc.Config, view.Config)
	assert.NotSame(t, pc.Logger, view.Logger)
	assert.NoError(t, view.Err())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	canceled := NewPluginContext(ctx, nil, config.Default(), "build-2").ForPlugin("social")
	assert.ErrorIs(t, canceled.Err(), context.Canceled)
}
