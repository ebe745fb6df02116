package plugin

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
)

// PluginContext provides plugins with access to build services and state.
// One context is created per build and handed to every hook.
type PluginContext struct {
	// Context is the standard Go context for cancellation and deadlines.
	Context context.Context

	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger

	// Config is the loaded configuration, read-only for plugins.
	Config *config.Config

	// BuildID uniquely identifies this build.
	BuildID string
}

// NewPluginContext creates a new plugin context for one build.
func NewPluginContext(ctx context.Context, logger *slog.Logger, cfg *config.Config, buildID string) *PluginContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &PluginContext{
		Context: ctx,
		Logger:  logger.With(logfields.BuildID(buildID)),
		Config:  cfg,
		BuildID: buildID,
	}
}

// ForPlugin returns a view of the context whose logger is tagged with the plugin name.
func (pc *PluginContext) ForPlugin(name string) *PluginContext {
	view := *pc
	view.Logger = pc.Logger.With(logfields.Plugin(name))
	return &view
}

// Err reports whether the build has been cancelled.
func (pc *PluginContext) Err() error {
	if pc.Context == nil {
		return nil
	}
	return pc.Context.Err()
}
