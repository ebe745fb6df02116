// Package plugin provides the plugin system that hooks into each stage of a
// site build. Plugins implement Plugin plus any of the hook interfaces; the
// Host calls every implementing plugin in Order.
package plugin

import (
	"fmt"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/page"
)

// Plugin represents a build plugin with metadata and configuration validation.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, type).
	Metadata() PluginMetadata

	// Validate checks if the plugin can run with the given configuration.
	Validate(cfg *config.Config) error
}

// Ordered is implemented by plugins that need to run before or after others.
// Lower values run first; plugins without an order run at 0.
type Ordered interface {
	Order() int
}

// ConfigHook runs once at the start of a build.
type ConfigHook interface {
	OnConfig(pc *PluginContext) error
}

// FilesHook may filter or extend the discovered source files.
type FilesHook interface {
	OnFiles(pc *PluginContext, files []page.File) ([]page.File, error)
}

// PageMarkdownHook sees each page before its Markdown is rendered. It may
// mutate page metadata.
type PageMarkdownHook interface {
	OnPageMarkdown(pc *PluginContext, p *page.Page) error
}

// PageContentHook rewrites the rendered HTML fragment of a page. It returns
// changed=false when the fragment is left as is.
type PageContentHook interface {
	OnPageContent(pc *PluginContext, p *page.Page, html string) (out string, changed bool, err error)
}

// PostBuildHook runs after every page has been written.
type PostBuildHook interface {
	OnPostBuild(pc *PluginContext) error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "social", "exclude").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Type identifies the plugin category.
	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}

// BasePlugin provides default implementations for optional plugin methods.
type BasePlugin struct{}

// Validate accepts any configuration.
func (BasePlugin) Validate(*config.Config) error {
	return nil
}

// orderOf returns the plugin's order, 0 when it does not implement Ordered.
func orderOf(p Plugin) int {
	if o, ok := p.(Ordered); ok {
		return o.Order()
	}
	return 0
}
