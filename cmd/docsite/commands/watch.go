package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/siteconfig"
	"git.home.luguber.info/inful/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9090)" env:"DOCSITE_METRICS_ADDR"`
	Debounce    time.Duration `help:"Quiet period before re-resolving after a change" default:"250ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunWatch(ctx, root, w.MetricsAddr, w.Debounce)
}

func RunWatch(ctx context.Context, root *CLI, metricsAddr string, debounce time.Duration) error {
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var srv *http.Server
	errChan := make(chan error, 1)

	if metricsAddr != "" {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		srv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("Serving metrics", logfields.Addr(metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				errChan <- errors.WrapError(err, errors.CategoryRuntime, "metrics server failed").Build()
			}
		}()
	}

	watcher, err := watch.New(root.Resolve, []string{root.Config, root.PackagePath()},
		watch.WithDebounce(debounce),
		watch.WithRecorder(recorder),
		watch.OnChange(func(cfg *siteconfig.SiteConfig) {
			slog.Info("Site configuration updated",
				slog.Int("locales", len(cfg.Locales())),
				slog.Int("sidebar", len(cfg.Theme().Sidebar)))
		}),
	)
	if err != nil {
		return err
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		errChan <- watcher.Run(runCtx)
	}()

	select {
	case err = <-errChan:
		stop()
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping watcher...")
		err = <-errChan
	}

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			slog.Warn("Metrics server shutdown failed", logfields.Error(serr))
		}
	}
	return err
}
