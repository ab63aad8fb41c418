// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is zero or negative.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// skipDirs are never descended into or reported.
var skipDirs = []string{
	"**/.git",
	"**/.git/**",
	"**/node_modules",
	"**/node_modules/**",
}

type (
	// OnChangeFunc receives the changed paths, relative to the watched
	// directory and sorted.
	OnChangeFunc func(ctx context.Context, changed []string) error

	// Options configures a Watcher.
	Options struct {
		// Dir is the config repository root. Empty means the working directory.
		Dir string
		// Patterns select the files that trigger OnChange. Empty matches all files.
		Patterns []string
		// Debounce is the quiet period after the last event.
		Debounce time.Duration
		// ClearScreen writes an ANSI clear sequence to Out before each run.
		ClearScreen bool
		// Out receives the clear sequence. Defaults to os.Stdout.
		Out io.Writer
		// Logger receives diagnostics. Defaults to a discarding logger.
		Logger *slog.Logger
		// OnChange is invoked once per debounce window.
		OnChange OnChangeFunc
	}

	// Watcher watches a directory tree. Run may be called once.
	Watcher struct {
		opts    Options
		dir     string
		fsw     *fsnotify.Watcher
		logger  *slog.Logger
		out     io.Writer
		started atomic.Bool
	}

	// batch collects changed paths until the debounce timer fires.
	batch struct {
		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		delay   time.Duration
		fire    func()
	}
)

// New validates the options and registers every directory under Dir.
func New(opts Options) (*Watcher, error) {
	for _, pat := range opts.Patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve directory: %w", err)
	}
	if info, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", abs)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{opts: opts, dir: abs, fsw: fsw, logger: logger, out: out}
	if err := w.addTree(abs); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Dir returns the absolute watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Run processes events until ctx is done. It returns nil on cancellation and
// an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var busy atomic.Bool
	b := &batch{pending: make(map[string]struct{}), delay: w.opts.Debounce}
	b.fire = func() {
		if ctx.Err() != nil {
			return
		}
		// A slow callback must not overlap with the next one; retry later.
		if !busy.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, postponing")
			b.rearm()
			return
		}
		defer busy.Store(false)

		changed := b.drain()
		if len(changed) == 0 {
			return
		}
		w.dispatch(ctx, changed)
	}

	defer func() {
		b.stop()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	w.logger.Info("watching for changes", "dir", w.dir, "patterns", w.opts.Patterns)

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			w.handle(evt, b)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) handle(evt fsnotify.Event, b *batch) {
	rel, err := filepath.Rel(w.dir, evt.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if matchAny(skipDirs, rel) {
		return
	}

	if evt.Has(fsnotify.Create) {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.addTree(evt.Name); err != nil {
				w.logger.Warn("watch new directory", "dir", rel, "err", err)
			}
			return
		}
	}
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
		return
	}
	if len(w.opts.Patterns) > 0 && !matchAny(w.opts.Patterns, rel) {
		return
	}

	w.logger.Debug("change detected", "file", rel, "op", evt.Op.String())
	b.add(rel)
}

func (w *Watcher) dispatch(ctx context.Context, changed []string) {
	if w.opts.ClearScreen {
		fmt.Fprint(w.out, "\033[2J\033[H")
	}
	if w.opts.OnChange == nil {
		return
	}
	if err := w.opts.OnChange(ctx, changed); err != nil {
		w.logger.Error("re-parse failed", "err", err)
	}
}

// addTree registers root and every directory below it that is not skipped.
// Unreadable directories are logged and skipped.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.dir, path)
		if err != nil {
			return nil //nolint:nilerr // outside the tree
		}
		if rel != "." && matchAny(skipDirs, filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if doublestar.MatchUnvalidated(pat, rel) {
			return true
		}
	}
	return false
}

func (b *batch) add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[path] = struct{}{}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.delay, b.fire)
		return
	}
	b.timer.Reset(b.delay)
}

func (b *batch) rearm() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Reset(b.delay)
	}
}

func (b *batch) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := slices.Sorted(maps.Keys(b.pending))
	clear(b.pending)
	return changed
}

func (b *batch) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
}
