// Package timer implements the countdown state machine at the heart of
// the focus loop. The countdown is anchored to an absolute target end
// instant rather than decremented per tick, so scheduler jitter or a
// suspended process never accumulates drift: every tick re-derives the
// remaining seconds from the clock.
package timer

import (
	"math"
	"sync"
	"time"

	"focusloop/internal/clock"
)

// tickInterval is the scheduler granularity. The reported remaining value
// only changes once per second, so a sub-second poll keeps the display
// responsive without over-ticking observers.
const tickInterval = 250 * time.Millisecond

// TickFunc receives (remaining, total) whenever the remaining seconds change.
type TickFunc func(remaining, total int)

// Timer is a single countdown with two states: paused (initial) and
// running. Callbacks are supplied once at construction and invoked from
// the timer's own goroutine while running, or synchronously from Reset.
type Timer struct {
	mu        sync.Mutex
	remaining int
	total     int
	running   bool
	targetEnd time.Time
	cancel    chan struct{}

	clk        clock.Clock
	onTick     TickFunc
	onComplete func()
}

// New creates a paused Timer with remaining == total == 0. Either
// callback may be nil.
func New(clk clock.Clock, onTick TickFunc, onComplete func()) *Timer {
	return &Timer{clk: clk, onTick: onTick, onComplete: onComplete}
}

// Snapshot returns the current (remaining, total, running) triple.
func (t *Timer) Snapshot() (remaining, total int, running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining, t.total, t.running
}

// Running reports whether the countdown is live.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// SetDuration resets both total and remaining to the given number of
// seconds and forces a pause. No completion fires. Negative input is
// treated as zero.
func (t *Timer) SetDuration(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	t.mu.Lock()
	t.total = seconds
	t.remaining = seconds
	t.stopLocked()
	t.mu.Unlock()
}

// Start begins the countdown. It is a silent no-op if already running or
// if nothing remains.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.running || t.remaining <= 0 {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.targetEnd = t.clk.Now().Add(time.Duration(t.remaining) * time.Second)
	t.cancel = make(chan struct{})
	cancel := t.cancel
	t.mu.Unlock()

	go t.run(cancel)
}

// Pause halts the countdown without altering remaining. Idempotent.
func (t *Timer) Pause() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

// Reset restores remaining to total, pauses, and reports the restored
// values through the tick callback so observers refresh immediately.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.remaining = t.total
	t.stopLocked()
	remaining, total := t.remaining, t.total
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(remaining, total)
	}
}

// Dispose releases the scheduling resource. Safe to call repeatedly and
// required before discarding the Timer; no callback fires afterwards.
func (t *Timer) Dispose() {
	t.Pause()
}

// stopLocked cancels any live countdown goroutine. Callers hold t.mu.
func (t *Timer) stopLocked() {
	t.running = false
	t.targetEnd = time.Time{}
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
}

func (t *Timer) run(cancel chan struct{}) {
	ticker := t.clk.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case now := <-ticker.C():
			remaining, total, changed, completed := t.step(now, cancel)
			if changed && t.onTick != nil {
				t.onTick(remaining, total)
			}
			if completed {
				if t.onComplete != nil {
					t.onComplete()
				}
				return
			}
		}
	}
}

// step re-derives remaining from the target end time. It returns whether
// the reported value changed and whether the countdown just completed.
// A stale goroutine (cancelled between tick delivery and here) does
// nothing.
func (t *Timer) step(now time.Time, cancel chan struct{}) (remaining, total int, changed, completed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running || t.cancel != cancel {
		return 0, 0, false, false
	}

	next := int(math.Ceil(t.targetEnd.Sub(now).Seconds()))
	if next < 0 {
		next = 0
	}
	if next != t.remaining {
		t.remaining = next
		changed = true
	}
	if t.remaining <= 0 {
		// Completion auto-pauses; the run goroutine exits on return.
		t.running = false
		t.targetEnd = time.Time{}
		t.cancel = nil
		completed = true
	}
	return t.remaining, t.total, changed, completed
}
