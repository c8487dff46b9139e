package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Clock for tests. Advance moves the current
// time and delivers one tick to every active ticker, blocking until each
// consumer has received it, which keeps test ordering deterministic.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time), owner: f}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves the clock forward and fires every active ticker once.
// Ticker registration happens on the consumer's goroutine, so Advance
// first waits a short beat for one to appear; advancing with no ticker
// at all is still allowed.
func (f *Fake) Advance(d time.Duration) {
	deadline := time.Now().Add(time.Second)
	for f.activeTickers() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	active := make([]*fakeTicker, 0, len(f.tickers))
	for _, t := range f.tickers {
		if !t.stopped {
			active = append(active, t)
		}
	}
	f.mu.Unlock()

	for _, t := range active {
		// A ticker whose consumer exited between the snapshot above and
		// this send would block forever; give up after a beat instead.
		select {
		case t.ch <- now:
		case <-time.After(time.Second):
		}
	}
}

func (f *Fake) activeTickers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type fakeTicker struct {
	ch      chan time.Time
	owner   *Fake
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	t.stopped = true
}
