package game

import "time"

// maxFrameDelta caps dt after a stall (window drag, suspend) so a single
// frame cannot jump the swirl and follow terms.
const maxFrameDelta = 0.1

// Clock reports elapsed seconds since the first tick and the delta since the last one.
type Clock interface {
	Tick() (elapsed, dt float64)
}

// RealClock reads the monotonic wall clock.
type RealClock struct {
	start time.Time
	last  time.Time
	now   func() time.Time
}

// NewRealClock creates a clock that starts on its first Tick.
func NewRealClock() *RealClock {
	return &RealClock{now: time.Now}
}

// Tick returns (0, 0) on the first call.
func (c *RealClock) Tick() (float64, float64) {
	now := c.now()
	if c.start.IsZero() {
		c.start, c.last = now, now
		return 0, 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	return now.Sub(c.start).Seconds(), dt
}

// StepClock advances by a fixed step per tick. Used for headless runs and tests.
type StepClock struct {
	Step    float64
	elapsed float64
	ticks   int64
}

// NewStepClock creates a clock advancing step seconds per tick.
func NewStepClock(step float64) *StepClock {
	return &StepClock{Step: step}
}

// Tick returns (0, 0) on the first call, then advances by Step.
func (c *StepClock) Tick() (float64, float64) {
	c.ticks++
	if c.ticks == 1 {
		return 0, 0
	}
	c.elapsed = float64(c.ticks-1) * c.Step
	return c.elapsed, c.Step
}
