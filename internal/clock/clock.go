// Package clock abstracts the time source so countdown behavior can be
// driven deterministically in tests. Production code uses Real; tests use
// Fake and advance it by hand.
package clock

import "time"

// Ticker delivers periodic instants, mirroring time.Ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock is the scheduling source injected into the timer.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Real is the wall-clock implementation.
type Real struct{}

func NewReal() Real { return Real{} }

func (Real) Now() time.Time { return time.Now() }

func (Real) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }
