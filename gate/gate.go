// Package gate rate-limits actions against a clock without sleeping.
package gate

import (
	"sync"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Gate remembers when it last admitted an action. The timestamp is seeded
// on the first call to Admit.
type Gate struct {
	clock  Clock
	seeded bool
	last   time.Time
}

// New returns a gate reading clock, or the wall clock when clock is nil.
func New(clock Clock) *Gate {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Gate{clock: clock}
}

// Admit reports whether an action may run now. force admits regardless of
// elapsed time; otherwise at least interval must have passed since the last
// admission. Every admission moves the timestamp to now. The seeding call
// only admits when forced.
func (g *Gate) Admit(interval time.Duration, force bool) bool {
	now := g.clock.Now()
	if !g.seeded {
		g.seeded = true
		g.last = now
		return force
	}
	if !force && now.Sub(g.last) < interval {
		return false
	}
	g.last = now
	return true
}
