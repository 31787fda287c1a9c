// Package clock abstracts wall-clock time and timer scheduling so that
// timer-driven logic (the drain interval, the reconnect backoff) can run
// against a fake clock in tests.
package clock

import "time"

// Clock provides the current time and timer scheduling.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules f to run after d. The returned timer can be
	// stopped before it fires.
	AfterFunc(d time.Duration, f func()) Timer

	// NewTicker returns a ticker firing every d.
	NewTicker(d time.Duration) Ticker
}

// Timer is a single pending callback.
type Timer interface {
	// Stop cancels the timer. Returns false if it already fired or was stopped.
	Stop() bool
}

// Ticker delivers ticks on a channel until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// System returns a Clock backed by the time package.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return systemTimer{t: time.AfterFunc(d, f)}
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (t systemTimer) Stop() bool { return t.t.Stop() }

type systemTicker struct {
	t *time.Ticker
}

func (t systemTicker) C() <-chan time.Time { return t.t.C }
func (t systemTicker) Stop()               { t.t.Stop() }
