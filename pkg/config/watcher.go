package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a configuration file and invokes a callback when it
// changes. Rapid write bursts are debounced into a single callback. The
// callback receives the freshly loaded and validated configuration; a file
// that fails to load or validate is reported to the error callback and the
// previous configuration stays in effect.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	stopped bool
	done    chan struct{}
}

// NewWatcher creates a watcher for the configuration file at path. Call
// Start to begin watching and Close to stop.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		debounce: 100 * time.Millisecond,
		watcher:  fsw,
		log:      logger,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. onChange is called with each successfully reloaded
// configuration; onError is called when a change produces an unloadable
// configuration. Either callback may be nil.
func (w *Watcher) Start(onChange func(*Config), onError func(error)) error {
	// Watch the directory rather than the file so that editors that replace
	// the file (rename + create) keep being observed.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.path, err)
	}

	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.run(onChange, onError)

	w.log.Debug("config watcher started", "path", w.path)
	return nil
}

func (w *Watcher) run(onChange func(*Config), onError func(error)) {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.trigger(func() { w.reload(onChange, onError) })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}

// trigger debounces rapid event bursts into a single callback.
func (w *Watcher) trigger(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, fn)
}

func (w *Watcher) reload(onChange func(*Config), onError func(error)) {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn("config reload failed", "path", w.path, "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.log.Info("config reloaded", "path", w.path)
	if onChange != nil {
		onChange(cfg)
	}
}

// Close stops the watcher and cancels any pending callback. It is safe to
// call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	return err
}
