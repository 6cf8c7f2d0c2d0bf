package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clawdeck/clawdeck/logging"
)

// Watcher watches a configuration file for changes and reloads it
type Watcher struct {
	path      string
	config    *Config
	loader    *Loader
	onChange  func(*Config)
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	mu        sync.RWMutex
	debouncer *debouncer
}

// NewWatcher creates a new configuration file watcher. onChange is invoked
// from a background goroutine whenever the file changes meaningfully.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	expandedPath := os.ExpandEnv(path)

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	loader := NewLoader()
	loader.SetPath(expandedPath)

	return &Watcher{
		path:      expandedPath,
		loader:    loader,
		onChange:  onChange,
		watcher:   fsWatcher,
		stopCh:    make(chan struct{}),
		debouncer: newDebouncer(500 * time.Millisecond),
	}, nil
}

// Start loads the initial configuration and begins watching
func (w *Watcher) Start() error {
	cfg, _, err := w.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load initial configuration: %w", err)
	}

	w.mu.Lock()
	w.config = cfg
	w.mu.Unlock()

	// Watch the directory; editors often replace the file, which drops a
	// watch on the file itself.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}
	if _, err := os.Stat(w.path); err == nil {
		if err := w.watcher.Add(w.path); err != nil {
			return fmt.Errorf("failed to watch config file %s: %w", w.path, err)
		}
	}

	go w.processEvents()
	return nil
}

// Stop stops watching the configuration file
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.debouncer.stop()
	return w.watcher.Close()
}

// Current returns the current configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			w.debouncer.debounce(w.reloadConfig)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.GetLogger().Warnf("config watcher error: %v", err)

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) reloadConfig() {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		logging.GetLogger().Warnf("config file deleted: %s", w.path)
		return
	}

	cfg, _, err := w.loader.Load()
	if err != nil {
		logging.GetLogger().Warnf("failed to reload configuration: %v", err)
		return
	}

	w.mu.Lock()
	oldConfig := w.config
	w.config = cfg
	w.mu.Unlock()

	if fmt.Sprintf("%+v", oldConfig) == fmt.Sprintf("%+v", cfg) {
		return
	}

	if w.onChange != nil {
		w.onChange(cfg)
	}
	logging.GetLogger().Infof("configuration reloaded from %s", w.path)
}

// debouncer coalesces rapid successive events
type debouncer struct {
	delay time.Duration
	timer *time.Timer
	mu    sync.Mutex
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
