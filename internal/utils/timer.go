package utils

import "time"

// Timer measures the wall-clock time between NewTimer (or Start) and Stop.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer returns a running Timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start restarts the measurement.
func (t *Timer) Start() {
	t.startTime = time.Now()
	t.duration = 0
}

// Stop records and returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.startTime)
	return t.duration
}

// Duration returns the time recorded by Stop, or the running time if Stop
// has not been called.
func (t *Timer) Duration() time.Duration {
	if t.duration == 0 {
		return time.Since(t.startTime)
	}
	return t.duration
}
