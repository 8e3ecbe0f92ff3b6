package dispatch

import "sync/atomic"

// Clock is a monotonic logical clock stamping dispatched calls.
//
// Sequence numbers, not wall time, order the trace, so two runs of the same
// body produce identical traces.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments and returns the sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
