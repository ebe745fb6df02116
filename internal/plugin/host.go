package plugin

import (
	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
	"git.home.luguber.info/inful/docplugins/internal/page"
)

// Host dispatches build hooks to the registered plugins in order. A failing
// hook stops dispatch and is returned wrapped in a *PluginError.
type Host struct {
	registry *Registry
}

// NewHost creates a host over registry.
func NewHost(registry *Registry) *Host {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Host{registry: registry}
}

// Plugins returns the registered plugins in execution order.
func (h *Host) Plugins() []Plugin {
	return h.registry.List()
}

// Validate validates every plugin against cfg.
func (h *Host) Validate(cfg *config.Config) error {
	for _, p := range h.Plugins() {
		if err := p.Validate(cfg); err != nil {
			return NewPluginError(p.Metadata().Name, "validate", err)
		}
	}
	return nil
}

// Config runs OnConfig hooks.
func (h *Host) Config(pc *PluginContext) error {
	for _, p := range h.Plugins() {
		hook, ok := p.(ConfigHook)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		if err := hook.OnConfig(pc.ForPlugin(name)); err != nil {
			return NewPluginError(name, HookConfig, err)
		}
	}
	return nil
}

// Files runs OnFiles hooks, each receiving the previous hook's result.
func (h *Host) Files(pc *PluginContext, files []page.File) ([]page.File, error) {
	for _, p := range h.Plugins() {
		hook, ok := p.(FilesHook)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		out, err := hook.OnFiles(pc.ForPlugin(name), files)
		if err != nil {
			return nil, NewPluginError(name, HookFiles, err)
		}
		files = out
	}
	return files, nil
}

// PageMarkdown runs OnPageMarkdown hooks for one page.
func (h *Host) PageMarkdown(pc *PluginContext, p *page.Page) error {
	for _, pl := range h.Plugins() {
		hook, ok := pl.(PageMarkdownHook)
		if !ok {
			continue
		}
		name := pl.Metadata().Name
		if err := hook.OnPageMarkdown(pc.ForPlugin(name), p); err != nil {
			return &PluginError{PluginName: name, Operation: HookPageMarkdown, Page: p.File.SrcPath, Err: err}
		}
	}
	return nil
}

// PageContent runs OnPageContent hooks, threading the fragment through each
// hook. p.Content holds the final fragment.
func (h *Host) PageContent(pc *PluginContext, p *page.Page) error {
	for _, pl := range h.Plugins() {
		hook, ok := pl.(PageContentHook)
		if !ok {
			continue
		}
		name := pl.Metadata().Name
		view := pc.ForPlugin(name)
		out, changed, err := hook.OnPageContent(view, p, p.Content)
		if err != nil {
			return &PluginError{PluginName: name, Operation: HookPageContent, Page: p.File.SrcPath, Err: err}
		}
		if changed {
			p.Content = out
			view.Logger.Debug("Page content rewritten", logfields.Page(p.File.SrcPath))
		}
	}
	return nil
}

// PostBuild runs OnPostBuild hooks.
func (h *Host) PostBuild(pc *PluginContext) error {
	for _, p := range h.Plugins() {
		hook, ok := p.(PostBuildHook)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		if err := hook.OnPostBuild(pc.ForPlugin(name)); err != nil {
			return NewPluginError(name, HookPostBuild, err)
		}
	}
	return nil
}
