// Package watch re-resolves the site configuration whenever its source files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/siteconfig"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 250 * time.Millisecond

// ResolveFunc produces a fresh SiteConfig from the files on disk.
type ResolveFunc func() (*siteconfig.SiteConfig, error)

// Watcher monitors the configuration and package metadata files. Every
// successful resolution replaces the current config; a failed one is logged
// and the previous config stays in effect.
type Watcher struct {
	files    []string
	resolve  ResolveFunc
	onChange func(*siteconfig.SiteConfig)
	recorder metrics.Recorder
	logger   *slog.Logger
	debounce time.Duration

	current atomic.Pointer[siteconfig.SiteConfig]
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(w *Watcher) { w.recorder = r } }

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option { return func(w *Watcher) { w.logger = l } }

// OnChange registers a callback invoked with every successfully resolved config.
func OnChange(fn func(*siteconfig.SiteConfig)) Option { return func(w *Watcher) { w.onChange = fn } }

// New creates a watcher for files (config file first, then any metadata files).
func New(resolve ResolveFunc, files []string, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.InternalError("watch: at least one file is required").Build()
	}
	w := &Watcher{
		resolve:  resolve,
		onChange: func(*siteconfig.SiteConfig) {},
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", f, err)
		}
		w.files = append(w.files, abs)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Current returns the most recent valid configuration, or nil if none resolved yet.
func (w *Watcher) Current() *siteconfig.SiteConfig {
	return w.current.Load()
}

// Run resolves once, then watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	// Watch directories rather than files so atomic-rename saves are seen.
	dirs := map[string]bool{}
	for _, f := range w.files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory "+dir).Build()
		}
		dirs[dir] = true
	}

	w.logger.Info("Watching configuration", logfields.Path(w.files[0]))
	w.reload()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping configuration watcher")
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.recorder.IncReload(event.Op.String())
			if event.Has(fsnotify.Remove) {
				w.logger.Warn("Watched file removed", logfields.Path(event.Name))
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(event.Name), logfields.Event(event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Config watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, f := range w.files {
		if name == f {
			return true
		}
	}
	return false
}

func (w *Watcher) reload() {
	start := time.Now()
	cfg, err := w.resolve()
	elapsed := time.Since(start)
	w.recorder.ObserveResolveDuration(elapsed)
	w.recorder.IncResolveResult(metrics.ResultFor(err))

	if err != nil {
		attrs := []any{logfields.Error(err), logfields.Category(string(errors.GetCategory(err)))}
		if field := siteconfig.FieldOf(err); field != "" {
			attrs = append(attrs, logfields.Field(field))
		}
		w.logger.Error("Configuration rejected, keeping previous", attrs...)
		return
	}

	w.current.Store(cfg)
	w.recorder.SetLastSuccess(time.Now())
	w.logger.Info("Configuration resolved",
		slog.String("base_path", cfg.BasePath()),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	w.onChange(cfg)
}
