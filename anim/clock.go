package anim

import "time"

// Clock turns wall-clock time into the per-frame deltas a juggler
// consumes.
type Clock struct {
	last time.Time
}

func NewClock() *Clock {
	return &Clock{last: time.Now()}
}

// Tick returns the seconds elapsed since the previous Tick, or since
// construction on the first call, and moves the reference point.
func (c *Clock) Tick() float64 {
	now := time.Now()
	dt := now.Sub(c.last).Seconds()
	c.last = now
	return dt
}
