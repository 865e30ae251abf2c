// Package watch notifies when the input files of a render change.
//
// A Watcher observes the parent directories of a fixed set of files, so
// editors that save by rename are still seen. Rapid changes are coalesced
// into one Event after a quiet period. A Tracker compares content digests
// so callers can skip work when a save left the bytes unchanged.
package watch

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the quiet period used when none is given.
const DefaultDelay = 100 * time.Millisecond

// Event reports that watched files changed.
type Event struct {
	// Paths holds the absolute paths that changed, sorted.
	Paths []string

	// Timestamp is the time of the last underlying change.
	Timestamp time.Time
}

// Watcher delivers debounced change events for a set of files.
type Watcher struct {
	fsw   *fsnotify.Watcher
	files map[string]bool
	delay time.Duration

	mu      sync.Mutex
	pending map[string]bool
	last    time.Time
	timer   *time.Timer

	events   chan Event
	errors   chan error
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New watches files. A delay of zero or less uses DefaultDelay.
func New(delay time.Duration, files ...string) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		files:   make(map[string]bool, len(files)),
		delay:   delay,
		pending: make(map[string]bool),
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Events returns the debounced event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Files returns the watched files as absolute paths, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Close stops the watcher. Pending changes are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()

	close(w.events)
	close(w.errors)
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Channel full, drop error
			}
		}
	}
}

// handle records a change to a watched file and restarts the quiet period.
func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return
	}
	path := filepath.Clean(ev.Name)
	if !w.files[path] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	w.pending[path] = true
	w.last = time.Now()
	if w.timer == nil {
		w.timer = time.AfterFunc(w.delay, w.fire)
		return
	}
	w.timer.Reset(w.delay)
}

// fire delivers the pending changes as one event. The send happens under
// the lock so it cannot race with Close.
func (w *Watcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || len(w.pending) == 0 {
		return
	}
	event := Event{Paths: make([]string, 0, len(w.pending)), Timestamp: w.last}
	for p := range w.pending {
		event.Paths = append(event.Paths, p)
	}
	clear(w.pending)
	slices.Sort(event.Paths)

	select {
	case w.events <- event:
	default:
		// Channel full, drop event; the consumer re-reads every file anyway
	}
}
