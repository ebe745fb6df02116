package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and free-form fields before defaults are applied.
// It mutates the provided config in-place and returns a result describing any coercions.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, errors.InternalError("config nil").Build()
	}
	res := &NormalizationResult{}
	normalizeSite(&c.Site, res)
	normalizeSocial(&c.Social)
	normalizeLogging(&c.Logging, res)
	c.Media.Video.Style = strings.TrimSpace(c.Media.Video.Style)
	c.Exclude.Patterns = trimNonEmpty(c.Exclude.Patterns)
	return res, nil
}

func normalizeSite(s *SiteConfig, res *NormalizationResult) {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	s.DocsDir = strings.TrimSpace(s.DocsDir)
	s.SiteDir = strings.TrimSpace(s.SiteDir)
	s.URL = strings.TrimSpace(s.URL)
	if s.URL != "" && !strings.HasSuffix(s.URL, "/") {
		res.Warnings = append(res.Warnings, warnChanged("site.url", s.URL, s.URL+"/"))
		s.URL += "/"
	}
}

func normalizeSocial(s *SocialConfig) {
	s.CardsDir = strings.Trim(strings.TrimSpace(s.CardsDir), "/")
	s.HeaderMarker = strings.TrimSpace(s.HeaderMarker)
	s.Colors.Text = strings.TrimSpace(s.Colors.Text)
	s.Colors.Description = strings.TrimSpace(s.Colors.Description)
	s.BackgroundColor = strings.TrimSpace(s.BackgroundColor)
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if lvl := NormalizeLogLevel(string(l.Level)); lvl != "" {
		if l.Level != lvl {
			res.Warnings = append(res.Warnings, warnChanged("logging.level", l.Level, lvl))
			l.Level = lvl
		}
	} else if string(l.Level) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("logging.level", string(l.Level), string(LogLevelInfo)))
		l.Level = LogLevelInfo
	}
	if f := NormalizeLogFormat(string(l.Format)); f != "" {
		if l.Format != f {
			res.Warnings = append(res.Warnings, warnChanged("logging.format", l.Format, f))
			l.Format = f
		}
	} else if string(l.Format) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("logging.format", string(l.Format), string(LogFormatText)))
		l.Format = LogFormatText
	}
}

func trimNonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
