package anim

// DelayedCall invokes a function after a delay, optionally more than
// once. A repeat count of 1 fires once (the default), n fires n times
// with the delay as the interval, and 0 repeats until removed.
type DelayedCall struct {
	call        func()
	totalTime   float64
	currentTime float64
	repeatCount int
	complete    bool
}

// minDelay keeps a zero or negative delay from degenerating into an
// unbounded cascade of firings within a single tick.
const minDelay = 0.0001

func NewDelayedCall(call func(), delay float64) *DelayedCall {
	if delay < minDelay {
		delay = minDelay
	}
	return &DelayedCall{
		call:        call,
		totalTime:   delay,
		repeatCount: 1,
	}
}

// RepeatCount returns how many firings remain, 0 meaning forever.
func (dc *DelayedCall) RepeatCount() int {
	return dc.repeatCount
}

// SetRepeatCount changes how many times the call fires in total.
func (dc *DelayedCall) SetRepeatCount(n int) {
	dc.repeatCount = n
}

// TotalTime returns the delay between firings in seconds.
func (dc *DelayedCall) TotalTime() float64 {
	return dc.totalTime
}

// CurrentTime returns the time accumulated towards the next firing.
func (dc *DelayedCall) CurrentTime() float64 {
	return dc.currentTime
}

// IsComplete reports whether the final firing has happened. The juggler
// removes complete objects on its own.
func (dc *DelayedCall) IsComplete() bool {
	return dc.complete
}

// AdvanceTime accumulates dt and fires the call whenever the delay is
// crossed. Time left over after a firing carries into the next
// interval, so a large dt can fire a repeating call several times.
func (dc *DelayedCall) AdvanceTime(dt float64) {
	previous := dc.currentTime
	dc.currentTime += dt
	if dc.currentTime > dc.totalTime {
		dc.currentTime = dc.totalTime
	}

	if previous < dc.totalTime && dc.currentTime >= dc.totalTime {
		if dc.repeatCount == 0 || dc.repeatCount > 1 {
			dc.call()
			if dc.repeatCount > 0 {
				dc.repeatCount--
			}
			dc.currentTime = 0
			dc.AdvanceTime(previous + dt - dc.totalTime)
		} else {
			dc.complete = true
			dc.call()
		}
	}
}

// DelayCall schedules fn to run once after delay seconds.
func (j *Juggler) DelayCall(fn func(), delay float64) AnimationId {
	return j.Add(NewDelayedCall(fn, delay))
}

// RepeatCall schedules fn every interval seconds, repeatCount times in
// total, 0 meaning until removed.
func (j *Juggler) RepeatCall(fn func(), interval float64, repeatCount int) AnimationId {
	dc := NewDelayedCall(fn, interval)
	dc.SetRepeatCount(repeatCount)
	return j.Add(dc)
}
