package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/site"
	"git.home.luguber.info/inful/docplugins/internal/watch"
)

// WatchCmd builds once and then rebuilds on every change below docs_dir.
type WatchCmd struct {
	SiteOverrides `embed:""`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if err := w.Apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		srv, err := startMetricsServer(cfg.Metrics.Addr, reg, g.Logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				g.Logger.Warn("Metrics server shutdown error", logfields.Error(err))
			}
		}()
	}

	host, err := site.NewHost(cfg, recorder)
	if err != nil {
		return err
	}
	builder := site.NewBuilder(cfg, host, site.WithRecorder(recorder), site.WithLogger(g.Logger))
	rebuild := func(ctx context.Context) error {
		_, err := builder.Build(ctx)
		return err
	}

	if err := rebuild(ctx); err != nil {
		g.Logger.Error("Initial build failed", logfields.Error(err))
	}

	watcher := watch.New(cfg.DocsDir(), rebuild,
		watch.WithSkip(cfg.SiteDir(), cfg.Path(cfg.Social.CacheDir)),
		watch.WithLogger(g.Logger))
	if err := watcher.Run(ctx); err != nil {
		return err
	}
	g.Logger.Info("Watch stopped")
	return nil
}

func startMetricsServer(addr string, reg *prom.Registry, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "start metrics server").
			WithContext("addr", addr).Build()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", logfields.Error(err))
		}
	}()

	logger.Info("Serving metrics", slog.String("addr", ln.Addr().String()), logfields.Path("/metrics"))
	return srv, nil
}
