package session

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of calls per key into a single call after the
// delay has elapsed without further activity.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule (re)starts the timer for key. A non-positive delay runs fn
// synchronously.
func (d *debouncer) Schedule(key string, fn func()) {
	if d.delay <= 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[key] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = timer
}

// Cancel drops the pending call for key. It reports whether one was pending.
func (d *debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	timer, ok := d.timers[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(d.timers, key)
	return true
}

// Pending returns the keys with a scheduled call.
func (d *debouncer) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := make([]string, 0, len(d.timers))
	for key := range d.timers {
		keys = append(keys, key)
	}
	return keys
}

// Stop cancels every pending call.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
