package testutil

import "sync"

// DeterministicClock hands out build sequence numbers in tests.
//
// Builds in the store are ordered by seq, never by wall-clock time. Tests
// that record several builds take their seq values from this clock so the
// order is explicit and repeatable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock at 0. The first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// NewDeterministicClockAt creates a clock whose next value is start+1. Used
// to continue numbering after builds already present in a store.
func NewDeterministicClockAt(start int64) *DeterministicClock {
	return &DeterministicClock{seq: start}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}
