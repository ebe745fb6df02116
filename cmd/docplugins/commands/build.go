package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SiteOverrides `embed:""`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if err := b.Apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println("Starting docplugins build")
	res, err := RunBuild(ctx, cfg, metrics.NoopRecorder{}, g.Logger)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d pages and %d assets into %s in %s\n",
		res.Pages, res.Assets, cfg.SiteDir(), res.Duration.Round(time.Millisecond))
	return nil
}

// RunBuild wires the plugin host and runs a single build.
func RunBuild(ctx context.Context, cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) (*site.Result, error) {
	host, err := site.NewHost(cfg, recorder)
	if err != nil {
		return nil, err
	}
	builder := site.NewBuilder(cfg, host, site.WithRecorder(recorder), site.WithLogger(logger))
	return builder.Build(ctx)
}
