package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects changed paths and flushes them once no new change has
// arrived for the window.
type Debouncer struct {
	window  time.Duration
	onFlush func([]string)

	mu      sync.Mutex
	paths   map[string]struct{}
	timer   *time.Timer
	stopped bool
}

// NewDebouncer returns a Debouncer calling onFlush with the sorted batch of
// paths after each quiet window.
func NewDebouncer(window time.Duration, onFlush func([]string)) *Debouncer {
	return &Debouncer{
		window:  window,
		onFlush: onFlush,
		paths:   make(map[string]struct{}),
	}
}

// Add records a change and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.paths[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.paths) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(d.paths))
	for p := range d.paths {
		batch = append(batch, p)
	}
	d.paths = make(map[string]struct{})
	d.timer = nil
	d.mu.Unlock()

	sort.Strings(batch)
	d.onFlush(batch)
}

// Stop discards pending changes. Add is a no-op afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.paths = make(map[string]struct{})
}
