package config

import (
	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// ValidateConfig checks a normalized and defaulted configuration.
func ValidateConfig(cfg *Config) error {
	if cfg.Site.Name == "" {
		return errors.ConfigError("site.name is required").Build()
	}
	if cfg.Site.DocsDir == cfg.Site.SiteDir {
		return errors.ConfigError("site.docs_dir and site.site_dir must differ").
			WithContext("dir", cfg.Site.DocsDir).Build()
	}
	if err := validateSocial(&cfg.Social); err != nil {
		return err
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return errors.ConfigError("metrics.addr is required when metrics are enabled").Build()
	}
	return nil
}

func validateSocial(s *SocialConfig) error {
	if !s.Enabled {
		return nil
	}
	if s.Concurrency < 1 {
		return errors.ConfigError("social.concurrency must be positive").
			WithContext("concurrency", s.Concurrency).Build()
	}
	colors := map[string]string{
		"social.background_color":   s.BackgroundColor,
		"social.colors.text":        s.Colors.Text,
		"social.colors.description": s.Colors.Description,
	}
	for field, value := range colors {
		if _, err := ParseHexColor(value); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid color").
				Fatal().WithContext("field", field).WithContext("value", value).Build()
		}
	}
	return nil
}
