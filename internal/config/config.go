package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// DefaultConfigFile is the configuration file name used when none is given.
const DefaultConfigFile = "docplugins.yaml"

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Social  SocialConfig  `yaml:"social"`
	Media   MediaConfig   `yaml:"media"`
	Exclude ExcludeConfig `yaml:"exclude"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`

	// BaseDir is the directory relative paths are resolved against.
	BaseDir string `yaml:"-"`
}

// SiteConfig holds the site-wide values handed to every plugin.
type SiteConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	URL         string `yaml:"url,omitempty"`
	DocsDir     string `yaml:"docs_dir"`
	SiteDir     string `yaml:"site_dir"`
}

// SocialConfig configures social card generation.
type SocialConfig struct {
	Enabled         bool         `yaml:"enabled"`
	CacheDir        string       `yaml:"cache_dir"`
	CardsDir        string       `yaml:"cards_dir"`
	Background      string       `yaml:"background"`
	BackgroundColor string       `yaml:"background_color"`
	Logo            string       `yaml:"logo,omitempty"`
	Fonts           FontsConfig  `yaml:"fonts"`
	Colors          ColorsConfig `yaml:"colors"`
	HeaderMarker    string       `yaml:"header_marker"`
	Concurrency     int          `yaml:"concurrency"`
}

// FontsConfig points at TTF/OTF files; empty entries use the embedded Go fonts.
type FontsConfig struct {
	Regular  string `yaml:"regular,omitempty"`
	SemiBold string `yaml:"semibold,omitempty"`
}

// ColorsConfig holds hex colors for card text.
type ColorsConfig struct {
	Text        string `yaml:"text"`
	Description string `yaml:"description"`
}

// MediaConfig configures image, video and lightbox tag rewriting.
type MediaConfig struct {
	// Compressed enables rewriting towards the compressed assets/target variants.
	Compressed bool           `yaml:"compressed"`
	Video      VideoConfig    `yaml:"video"`
	Lightbox   LightboxConfig `yaml:"lightbox"`
}

// VideoConfig holds the global attributes applied to rewritten videos.
type VideoConfig struct {
	Controls bool   `yaml:"controls"`
	Autoplay bool   `yaml:"autoplay"`
	Style    string `yaml:"style"`
}

// LightboxConfig toggles lightbox wrapping of images.
type LightboxConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ExcludeConfig lists fnmatch-style patterns of source files to drop.
type ExcludeConfig struct {
	Patterns []string `yaml:"patterns"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint used in watch mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns a configuration populated with every default value.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			DocsDir: "docs",
			SiteDir: "site",
		},
		Social: SocialConfig{
			Enabled:         true,
			CacheDir:        filepath.Join("target", "cards"),
			CardsDir:        "assets/images/social",
			Background:      filepath.Join("docs", "assets", "social-card.png"),
			BackgroundColor: "#ffffff",
			Colors: ColorsConfig{
				Text:        "#000000",
				Description: "#52526B",
			},
			HeaderMarker: ".header",
			Concurrency:  runtime.NumCPU(),
		},
		Media: MediaConfig{
			Video: VideoConfig{
				Controls: true,
				Style:    "width:100%",
			},
			Lightbox: LightboxConfig{Enabled: true},
		},
		Exclude: ExcludeConfig{
			Patterns: []string{"**/.shared", "**/.shared/*"},
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Metrics: MetricsConfig{
			Addr: ":9464",
		},
		BaseDir: ".",
	}
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve config path").
			Fatal().WithContext("path", configPath).Build()
	}

	if loaded, err := LoadEnvFiles(filepath.Dir(abs)); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	} else if len(loaded) > 0 {
		slog.Debug("Loaded environment files", "files", loaded)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read config file").
			Fatal().WithContext("path", configPath).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.BaseDir = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes YAML configuration, expanding environment variables first, and
// returns a normalized, defaulted and validated Config.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().Build()
	}

	res, err := NormalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		slog.Warn("Configuration normalized", "detail", w)
	}

	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults refills values that were explicitly blanked in the file.
func applyDefaults(c *Config) {
	def := Default()
	if c.Site.DocsDir == "" {
		c.Site.DocsDir = def.Site.DocsDir
	}
	if c.Site.SiteDir == "" {
		c.Site.SiteDir = def.Site.SiteDir
	}
	if c.Social.CacheDir == "" {
		c.Social.CacheDir = def.Social.CacheDir
	}
	if c.Social.CardsDir == "" {
		c.Social.CardsDir = def.Social.CardsDir
	}
	if c.Social.BackgroundColor == "" {
		c.Social.BackgroundColor = def.Social.BackgroundColor
	}
	if c.Social.Colors.Text == "" {
		c.Social.Colors.Text = def.Social.Colors.Text
	}
	if c.Social.Colors.Description == "" {
		c.Social.Colors.Description = def.Social.Colors.Description
	}
	if c.Social.HeaderMarker == "" {
		c.Social.HeaderMarker = def.Social.HeaderMarker
	}
	if c.Social.Concurrency == 0 {
		c.Social.Concurrency = def.Social.Concurrency
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = def.Metrics.Addr
	}
}

// Path resolves p against the configuration's base directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// DocsDir returns the resolved documentation source directory.
func (c *Config) DocsDir() string { return c.Path(c.Site.DocsDir) }

// SiteDir returns the resolved output directory.
func (c *Config) SiteDir() string { return c.Path(c.Site.SiteDir) }

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Default()
	example.Site.Name = "My Documentation"
	example.Site.Description = "Documentation built with docplugins"
	example.Site.URL = "https://docs.example.com/"
	example.Social.Logo = filepath.Join("docs", "assets", "logo.svg")

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "create config directory").
				Fatal().WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			Fatal().WithContext("path", configPath).Build()
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("site=%q docs=%s out=%s social=%t compressed=%t", c.Site.Name, c.Site.DocsDir, c.Site.SiteDir, c.Social.Enabled, c.Media.Compressed)
}
