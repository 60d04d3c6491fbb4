package lock

import "sync/atomic"

// Sequence is a lock-free monotonically increasing integer generator.
type Sequence struct {
	v atomic.Int64
}

func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.v.Store(start)
	return s
}

// Next returns the current value and advances the sequence.
func (s *Sequence) Next() int64 { return s.v.Add(1) - 1 }

// Value returns the value the next call to Next will return, without
// advancing the sequence.
func (s *Sequence) Value() int64 { return s.v.Load() }
