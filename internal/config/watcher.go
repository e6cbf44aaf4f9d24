// ABOUTME: fsnotify-based watcher for hook documents and settings files
// ABOUTME: Watches parent directories so files may be created after Start; debounced

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mauromedda/pi-hooks/internal/log"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher calls onChange when any monitored file is written, created,
// renamed, or removed. Bursts of events collapse into one call.
type Watcher struct {
	paths    map[string]struct{}
	onChange func()
	debounce time.Duration

	mu       sync.Mutex
	fs       *fsnotify.Watcher
	timer    *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher that calls onChange when any monitored file changes.
func NewWatcher(paths []string, onChange func()) *Watcher {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[filepath.Clean(p)] = struct{}{}
	}
	return &Watcher{
		paths:    set,
		onChange: onChange,
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}
}

// SetDebounce overrides the default debounce window (200ms).
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start begins watching. Parent directories that do not exist are skipped;
// it fails only if none of them can be watched.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	watched := 0
	seen := make(map[string]bool)
	for p := range w.paths {
		dir := filepath.Dir(p)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := fw.Add(dir); err != nil {
			continue
		}
		watched++
	}
	if watched == 0 {
		fw.Close()
		return fmt.Errorf("no watchable directories among %d paths", len(w.paths))
	}

	w.mu.Lock()
	w.fs = fw
	w.mu.Unlock()

	go w.loop(fw)
	return nil
}

// Stop halts watching. Safe to call multiple times and concurrently.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		fw := w.fs
		w.mu.Unlock()
		if fw != nil {
			fw.Close()
		}
	})
}

func (w *Watcher) loop(fw *fsnotify.Watcher) {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if _, tracked := w.paths[filepath.Clean(ev.Name)]; !tracked {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Warn("config: watcher: %v", err)
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
		default:
			w.onChange()
		}
	})
}
