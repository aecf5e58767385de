// Package clock abstracts time so command timings can be asserted in tests.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// StepClock is a fake Clock that moves forward by a fixed step every time
// it is read, so consecutive readings bracket a known duration.
type StepClock struct {
	current time.Time
	step    time.Duration
}

// NewStepClock creates a StepClock starting at start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{current: start, step: step}
}

// Now returns the current fake time, then advances it by the step.
func (c *StepClock) Now() time.Time {
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Stopwatch measures elapsed time against a Clock.
type Stopwatch struct {
	clock Clock
	start time.Time
}

// Start begins timing.
func Start(c Clock) *Stopwatch {
	return &Stopwatch{clock: c, start: c.Now()}
}

// Elapsed returns the time since Start.
func (s *Stopwatch) Elapsed() time.Duration {
	return s.clock.Now().Sub(s.start)
}
