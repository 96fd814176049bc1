// Package watch notifies on changes to watched source files so callers
// can re-parse them. It wraps fsnotify with per-path debouncing: editors
// commonly emit bursts of write events for a single save.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports a changed file.
type Event struct {
	Path string
}

// Watcher watches files for writes and creations.
type Watcher struct {
	w        *fsnotify.Watcher
	events   chan Event
	errors   chan error
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	paths  map[string]bool
	done   chan struct{}
}

// New creates a watcher. Events for the same path within the debounce
// window collapse into one.
func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		w:        fw,
		events:   make(chan Event, 128),
		errors:   make(chan error, 1),
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		paths:    make(map[string]bool),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Add watches a single file. The containing directory is registered with
// fsnotify because many editors replace files on save, which drops
// file-level watches.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.paths[abs] = true
	w.mu.Unlock()
	return w.w.Add(filepath.Dir(abs))
}

// Events returns the debounced change events.
func (w *Watcher) Events() <-chan Event { return w.events }

// Errors returns watcher errors.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.w.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			watched := w.paths[abs]
			w.mu.Unlock()
			if !watched {
				continue
			}
			w.fire(abs)
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.events <- Event{Path: path}:
		case <-w.done:
		}
	})
}
