package simpleorm

import "sync/atomic"

// Sequence hands out auto-increment identifiers for generated builders.
// It is safe for concurrent use.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a sequence whose first Next value is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next identifier.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Observe records an identifier supplied by the caller, so later Next
// values never collide with it.
func (s *Sequence) Observe(id int64) {
	for {
		last := s.last.Load()
		if id <= last || s.last.CompareAndSwap(last, id) {
			return
		}
	}
}

// Current returns the last identifier handed out or observed.
func (s *Sequence) Current() int64 {
	return s.last.Load()
}

// Reset sets the sequence back to its initial state.
func (s *Sequence) Reset() {
	s.last.Store(0)
}
