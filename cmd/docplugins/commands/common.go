package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docplugins.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site from the docs directory"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever the docs directory changes"`
	Card  CardCmd  `cmd:"" help:"Render a single social card"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it installs a logger that honours --verbose
// until a command loads its configuration.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := NewLogger(os.Stderr, config.LogFormatText, level)
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// LoadConfig loads the configuration file and reinstalls the default logger
// using its logging section.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := NewLogger(os.Stderr, cfg.Logging.Format, level)
	slog.SetDefault(logger)
	g.Logger = logger
	return cfg, nil
}

// NewLogger builds a text or JSON slog logger writing to w.
func NewLogger(w io.Writer, format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SiteOverrides are the flags shared by build and watch.
type SiteOverrides struct {
	Compressed bool   `help:"Rewrite media towards the compressed asset variants"`
	SiteDir    string `name:"site-dir" help:"Override site.site_dir"`
	NoSocial   bool   `name:"no-social" help:"Disable social card generation"`
}

// Apply overrides cfg with the flags that were set and revalidates it.
func (o SiteOverrides) Apply(cfg *config.Config) error {
	if o.Compressed {
		cfg.Media.Compressed = true
	}
	if o.SiteDir != "" {
		cfg.Site.SiteDir = o.SiteDir
	}
	if o.NoSocial {
		cfg.Social.Enabled = false
	}
	return config.ValidateConfig(cfg)
}

// copyFile copies a single file from src to dst, creating parent directories.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "open file").
			WithContext("path", src).Build()
	}
	defer func() {
		_ = srcFile.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", dst).Build()
	}
	dstFile, err := os.Create(dst)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create file").
			WithContext("path", dst).Build()
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "copy file").
			WithContext("path", dst).Build()
	}
	return nil
}
