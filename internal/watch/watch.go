// Package watch rebuilds the site when files under the docs directory change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
)

// DefaultDelay is the quiet period after the last event before a rebuild starts.
const DefaultDelay = 300 * time.Millisecond

// RebuildFunc runs one rebuild.
type RebuildFunc func(ctx context.Context) error

// Watcher watches a directory tree and triggers debounced rebuilds.
type Watcher struct {
	root    string
	skip    []string
	delay   time.Duration
	rebuild RebuildFunc
	logger  *slog.Logger
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithSkip excludes directories (and everything below them) from watching.
// Used for output directories nested inside the watched tree.
func WithSkip(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			if abs, err := filepath.Abs(d); err == nil {
				w.skip = append(w.skip, abs)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for root.
func New(root string, rebuild RebuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		root:    root,
		delay:   DefaultDelay,
		rebuild: rebuild,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is canceled. Failed rebuilds are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "resolve watch root").
			WithContext("path", w.root).Build()
	}
	if st, statErr := os.Stat(root); statErr != nil || !st.IsDir() {
		return errors.FileSystemError("watch root not found or not a directory").
			WithContext("path", root).Build()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "create file watcher").Build()
	}
	defer func() { _ = fsw.Close() }()

	w.addDirsRecursive(fsw, root)

	requests := make(chan struct{}, 1)
	deb := newDebouncer(w.delay, func() { request(requests) })
	defer deb.stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, requests)
	}()

	w.logger.Info("Watching for changes", logfields.Path(root))

	for {
		select {
		case <-ctx.Done():
			deb.stop()
			wg.Wait()
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				wg.Wait()
				return nil
			}
			if w.handleEvent(fsw, ev) {
				deb.trigger()
			}
		case werr, ok := <-fsw.Errors:
			if !ok {
				wg.Wait()
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

// request queues a rebuild. The channel holds at most one pending request,
// so bursts arriving during a running rebuild collapse into one.
func request(requests chan<- struct{}) {
	select {
	case requests <- struct{}{}:
	default:
	}
}

func (w *Watcher) worker(ctx context.Context, requests <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			start := time.Now()
			w.logger.Info("Change detected; rebuilding site")
			if err := w.rebuild(ctx); err != nil {
				w.logger.Warn("Rebuild failed", logfields.Error(err), logfields.Since(start))
				continue
			}
			w.logger.Info("Rebuild complete", logfields.Since(start))
		}
	}
}

// handleEvent reports whether ev should trigger a rebuild.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || w.skipped(ev.Name) {
		return false
	}
	if ev.Op.Has(fsnotify.Chmod) && !ev.Op.Has(fsnotify.Write) {
		return false
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fsw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
	return true
}

func (w *Watcher) skipped(path string) bool {
	for _, s := range w.skip {
		if path == s || strings.HasPrefix(path, s+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.skipped(path)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for paths that never affect the build output.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .DS_Store and emacs lock files (.#name).
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}

	return base == "Thumbs.db"
}
