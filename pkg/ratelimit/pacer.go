package ratelimit

import (
	"time"
)

// Pacer enforces a minimum wall-clock interval between consecutive
// requests of the same phase. The API publishes no Retry-After signal, so
// pacing is purely client-side: time the request, sleep off whatever part
// of the interval it did not consume, and keep a running total of the time
// spent sleeping for the end-of-run report.
type Pacer struct {
	interval time.Duration
	waited   time.Duration

	// sleep and now are injectable for tests
	sleep func(time.Duration)
	now   func() time.Time
}

// NewPacer creates a pacer with the given minimum inter-request interval.
// A zero or negative interval disables sleeping entirely.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Begin marks the start of a paced request cycle.
func (p *Pacer) Begin() time.Time {
	return p.now()
}

// Pace sleeps off the remainder of the interval not consumed since start,
// accumulating the slept time. It returns the duration actually slept.
func (p *Pacer) Pace(start time.Time) time.Duration {
	remaining := p.interval - p.now().Sub(start)
	if remaining <= 0 {
		return 0
	}
	p.waited += remaining
	p.sleep(remaining)
	return remaining
}

// TotalWaited reports the cumulative time spent sleeping for pacing.
func (p *Pacer) TotalWaited() time.Duration {
	return p.waited
}

// Reset clears the wait accumulator.
func (p *Pacer) Reset() {
	p.waited = 0
}
