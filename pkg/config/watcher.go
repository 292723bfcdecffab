package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration when the file changes on disk.
// This replaces re-parsing the file on every request: handlers read a
// snapshot via Current and the watcher swaps it atomically.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(*Config)

	mu       sync.RWMutex
	current  *Config
	debounce time.Duration
	lastLoad time.Time
	stop     chan struct{}
}

// NewWatcher starts from an already loaded config. onReload may be nil.
func NewWatcher(path string, initial *Config, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	// Watch the directory: editors replace files by rename, which a
	// watch on the file itself would lose.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     path,
		watcher:  fw,
		onReload: onReload,
		current:  initial,
		debounce: 500 * time.Millisecond,
		stop:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Current returns the latest configuration snapshot.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Reload re-reads the file immediately, independent of file events.
func (w *Watcher) Reload() error {
	cfg, err := Load(w.path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.current = cfg
	w.lastLoad = time.Now()
	w.mu.Unlock()
	if w.onReload != nil {
		w.onReload(cfg)
	}
	return nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.stop)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.mu.RLock()
			recent := time.Since(w.lastLoad) < w.debounce
			w.mu.RUnlock()
			if recent {
				continue
			}
			// Best effort: a half-written file fails to parse and the
			// previous snapshot stays in effect.
			_ = w.Reload()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

		case <-w.stop:
			return
		}
	}
}
