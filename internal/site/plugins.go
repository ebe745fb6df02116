package site

import (
	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
	"git.home.luguber.info/inful/docplugins/internal/plugin/exclude"
	"git.home.luguber.info/inful/docplugins/internal/plugin/media"
	"git.home.luguber.info/inful/docplugins/internal/social"
)

// Plugins returns the plugin set enabled by cfg.
func Plugins(cfg *config.Config, recorder metrics.Recorder) ([]plugin.Plugin, error) {
	ex, err := exclude.New(cfg.Exclude.Patterns, recorder)
	if err != nil {
		return nil, err
	}

	plugins := []plugin.Plugin{
		ex,
		media.NewVideo(cfg.Media.Video, cfg.Media.Compressed, recorder),
		media.NewImage(cfg.Media.Compressed, recorder),
	}
	if cfg.Media.Lightbox.Enabled {
		plugins = append(plugins, media.NewLightbox(recorder))
	}
	if cfg.Social.Enabled {
		plugins = append(plugins, social.New(recorder))
	}
	return plugins, nil
}

// NewHost registers the plugins enabled by cfg and validates them.
func NewHost(cfg *config.Config, recorder metrics.Recorder) (*plugin.Host, error) {
	plugins, err := Plugins(cfg, recorder)
	if err != nil {
		return nil, err
	}
	reg := plugin.NewRegistry()
	for _, p := range plugins {
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	host := plugin.NewHost(reg)
	if err := host.Validate(cfg); err != nil {
		return nil, err
	}
	return host, nil
}
