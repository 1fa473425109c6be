// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package debounce delays committing search box text until typing pauses.
// It is a trailing-edge debounce: every push restarts the quiet period and
// only the last value of a burst is emitted.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pdiddy/buffet-search/internal/query"
)

// Debouncer emits the last pushed value once the input has been quiet for
// the configured delay.
type Debouncer struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	delay  time.Duration
	minLen int
	emit   func(string)

	timer   clockwork.Timer
	gen     uint64
	pending string
	armed   bool
}

// New returns a Debouncer that calls emit with the settled value. emit runs
// on a timer goroutine with no Debouncer lock held. A nil clock selects the
// real clock.
func New(clock clockwork.Clock, delay time.Duration, minLen int, emit func(string)) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{clock: clock, delay: delay, minLen: minLen, emit: emit}
}

// Push records value and restarts the quiet period. A value shorter than
// the minimum query length cancels any pending emission instead.
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	if !query.Searchable(value, d.minLen) {
		return
	}

	d.gen++
	gen := d.gen
	d.pending = value
	d.armed = true
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending emission, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Pending returns the value waiting to be emitted.
func (d *Debouncer) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.armed
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// A timer that already fired checks the generation and backs off.
	d.gen++
	d.pending = ""
	d.armed = false
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.armed {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.pending = ""
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.emit(value)
}
