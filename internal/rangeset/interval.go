// Package rangeset implements the interval algebra over the primary-key
// domain: half-open/closed interval endpoints, single intervals, and
// disjunctions of intervals with union/intersection.
package rangeset

import "cmp"

// Start is the lower bound of an interval: either open (exclusive) or
// closed (inclusive).
type Start[T cmp.Ordered] struct {
	v      T
	closed bool
}

func OpenStart[T cmp.Ordered](v T) Start[T]   { return Start[T]{v: v, closed: false} }
func ClosedStart[T cmp.Ordered](v T) Start[T] { return Start[T]{v: v, closed: true} }

func (s Start[T]) Value() T   { return s.v }
func (s Start[T]) Open() bool { return !s.closed }

// Past reports whether v satisfies this start bound: for a closed start
// that includes v == bound, for an open start it requires v > bound.
func (s Start[T]) Past(v T) bool {
	if s.closed {
		return v >= s.v
	}
	return v > s.v
}

// Compare orders two starts. At equal values a closed start sorts before an
// open one: [x is a "lower" start than (x, since [x includes x.
func (s Start[T]) Compare(o Start[T]) int {
	if s.v != o.v {
		return cmp.Compare(s.v, o.v)
	}
	switch {
	case s.closed == o.closed:
		return 0
	case s.closed:
		return -1
	default:
		return 1
	}
}

func minStart[T cmp.Ordered](a, b Start[T]) Start[T] {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

func maxStart[T cmp.Ordered](a, b Start[T]) Start[T] {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

// End is the upper bound of an interval: either open (exclusive) or closed
// (inclusive).
type End[T cmp.Ordered] struct {
	v      T
	closed bool
}

func OpenEnd[T cmp.Ordered](v T) End[T]   { return End[T]{v: v, closed: false} }
func ClosedEnd[T cmp.Ordered](v T) End[T] { return End[T]{v: v, closed: true} }

func (e End[T]) Value() T   { return e.v }
func (e End[T]) Open() bool { return !e.closed }

// Before reports whether v satisfies this end bound: for a closed end that
// includes v == bound, for an open end it requires v < bound.
func (e End[T]) Before(v T) bool {
	if e.closed {
		return v <= e.v
	}
	return v < e.v
}

// Compare orders two ends. At equal values a closed end sorts after an open
// one: x] is a "higher" end than x), since x] includes x.
func (e End[T]) Compare(o End[T]) int {
	if e.v != o.v {
		return cmp.Compare(e.v, o.v)
	}
	switch {
	case e.closed == o.closed:
		return 0
	case e.closed:
		return 1
	default:
		return -1
	}
}

func minEnd[T cmp.Ordered](a, b End[T]) End[T] {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

func maxEnd[T cmp.Ordered](a, b End[T]) End[T] {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}
