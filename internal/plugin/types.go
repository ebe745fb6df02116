package plugin

import "fmt"

// PluginType identifies the category of plugin.
type PluginType string

const (
	// PluginTypeFilter decides which source files take part in the build.
	PluginTypeFilter PluginType = "filter"

	// PluginTypeRewrite modifies rendered page HTML.
	PluginTypeRewrite PluginType = "rewrite"

	// PluginTypeAsset produces additional site assets and page metadata.
	PluginTypeAsset PluginType = "asset"
)

// IsValid returns true if the plugin type is recognized.
func (t PluginType) IsValid() bool {
	switch t {
	case PluginTypeFilter, PluginTypeRewrite, PluginTypeAsset:
		return true
	default:
		return false
	}
}

// String returns the string representation of the plugin type.
func (t PluginType) String() string {
	return string(t)
}

// Hook names used in logs and PluginError.Operation.
const (
	HookConfig       = "on_config"
	HookFiles        = "on_files"
	HookPageMarkdown = "on_page_markdown"
	HookPageContent  = "on_page_content"
	HookPostBuild    = "on_post_build"
)

// PluginError represents an error that occurred within a plugin.
type PluginError struct {
	// PluginName identifies which plugin failed.
	PluginName string

	// Operation is the hook that was running.
	Operation string

	// Page is the source path of the page being processed, if any.
	Page string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	if e.Page != "" {
		return fmt.Sprintf("plugin %s failed during %s for %s: %v", e.PluginName, e.Operation, e.Page, e.Err)
	}
	return fmt.Sprintf("plugin %s failed during %s: %v", e.PluginName, e.Operation, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(pluginName, operation string, err error) *PluginError {
	return &PluginError{
		PluginName: pluginName,
		Operation:  operation,
		Err:        err,
	}
}
