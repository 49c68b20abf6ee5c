package snapshot

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of writes to one file into a single change.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	Debounce time.Duration
	// Filter selects files below a watched directory. Ignored when watching
	// a single file.
	Filter DiscoverOptions
	// OnChange is called once per debounced change with the file's absolute
	// path.
	OnChange func(path string)
	// OnRemove is called when a watched file is removed or renamed away.
	OnRemove func(path string)
}

// Watcher reports changes to snapshot files.
//
// Usage:
//
//	w, err := snapshot.NewWatcher(snapshot.WatchOptions{OnChange: regenerate}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start("snapshots/"); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	fs     *fsnotify.Watcher
	opts   WatchOptions
	logger *slog.Logger

	root string
	// single is set when watching one file.
	single string

	timersMu sync.Mutex
	timers   map[string]*time.Timer

	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

// NewWatcher returns a stopped watcher.
func NewWatcher(opts WatchOptions, logger *slog.Logger) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, fmt.Errorf("watch: OnChange is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		fs:     fsw,
		opts:   opts,
		logger: logger,
		timers: make(map[string]*time.Timer),
		done:   make(chan struct{}),
	}, nil
}

// Start watches target, a snapshot file or a directory tree, in the
// background.
func (w *Watcher) Start(target string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", target, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}

	if info.IsDir() {
		w.root = abs
		if err := w.addTree(abs); err != nil {
			return err
		}
	} else {
		w.root = filepath.Dir(abs)
		w.single = abs
		if err := w.fs.Add(w.root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", w.root, err)
		}
	}

	w.started = true
	go w.loop()
	w.logger.Info("watching snapshots", "target", abs)
	return nil
}

// addTree watches dir and its subdirectories, skipping excluded ones.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if rel, rerr := filepath.Rel(w.root, path); rerr == nil && rel != "." &&
			matchesAny(w.opts.Filter.Exclude, filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop ends watching and cancels pending changes. It is idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.done)
	w.mu.Unlock()

	w.timersMu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.timersMu.Unlock()

	return w.fs.Close()
}

// Pending returns the number of changes waiting out their debounce delay.
func (w *Watcher) Pending() int {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	return len(w.timers)
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) && w.single == "" {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}
	if !w.selected(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.schedule(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancel(path)
		if w.opts.OnRemove != nil {
			w.opts.OnRemove(path)
		}
	}
}

func (w *Watcher) selected(path string) bool {
	if w.single != "" {
		return path == w.single
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return w.opts.Filter.Matches(filepath.ToSlash(rel))
}

func (w *Watcher) schedule(path string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(w.opts.Debounce, func() {
		w.timersMu.Lock()
		if w.timers[path] == timer {
			delete(w.timers, path)
		}
		w.timersMu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		w.logger.Debug("snapshot changed", "path", path)
		w.opts.OnChange(path)
	})
	w.timers[path] = timer
}

func (w *Watcher) cancel(path string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}
