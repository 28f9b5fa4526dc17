package rangeset

import "cmp"

// simpleKind tags which shape a SimpleRange carries.
type simpleKind uint8

const (
	kindEmpty simpleKind = iota
	kindFull
	kindValue
	kindStart
	kindEnd
	kindValues
)

// SimpleRange is a single contiguous interval over T, or one of the two
// degenerate shapes Empty (contains nothing) and Full (contains everything).
type SimpleRange[T cmp.Ordered] struct {
	kind  simpleKind
	value T
	start Start[T]
	end   End[T]
}

func Empty[T cmp.Ordered]() SimpleRange[T] { return SimpleRange[T]{kind: kindEmpty} }
func Full[T cmp.Ordered]() SimpleRange[T]  { return SimpleRange[T]{kind: kindFull} }
func Value[T cmp.Ordered](v T) SimpleRange[T] {
	return SimpleRange[T]{kind: kindValue, value: v}
}
func FromStart[T cmp.Ordered](s Start[T]) SimpleRange[T] {
	return SimpleRange[T]{kind: kindStart, start: s}
}
func FromEnd[T cmp.Ordered](e End[T]) SimpleRange[T] {
	return SimpleRange[T]{kind: kindEnd, end: e}
}
func Values[T cmp.Ordered](s Start[T], e End[T]) SimpleRange[T] {
	return SimpleRange[T]{kind: kindValues, start: s, end: e}
}

// ValuePastStart reports whether v lies at or past this range's lower bound.
func (r SimpleRange[T]) ValuePastStart(v T) bool { return r.valuePastStart(v) }

// ValueBeforeEnd reports whether v lies at or before this range's upper bound.
func (r SimpleRange[T]) ValueBeforeEnd(v T) bool { return r.valueBeforeEnd(v) }

// valuePastStart reports whether v lies at or past this range's lower bound.
func (r SimpleRange[T]) valuePastStart(v T) bool {
	switch r.kind {
	case kindValues:
		return r.start.Past(v)
	case kindValue:
		return v >= r.value
	case kindStart:
		return r.start.Past(v)
	default:
		return true
	}
}

// valueBeforeEnd reports whether v lies at or before this range's upper bound.
func (r SimpleRange[T]) valueBeforeEnd(v T) bool {
	switch r.kind {
	case kindValues:
		return r.end.Before(v)
	case kindValue:
		return v <= r.value
	case kindEnd:
		return r.end.Before(v)
	default:
		return true
	}
}

func (r SimpleRange[T]) contains(v T) bool {
	return r.valuePastStart(v) && r.valueBeforeEnd(v)
}

// Overlaps reports whether r and o share at least one value.
func (r SimpleRange[T]) Overlaps(o SimpleRange[T]) bool {
	switch r.kind {
	case kindValues:
		ov, oIsValues := o.asValues()
		if !oIsValues {
			return o.contains(r.start.Value()) || o.contains(r.end.Value())
		}
		lo, hi := maxStart(r.start, ov.start), minEnd(r.end, ov.end)
		return lo.Value() < hi.Value() || (lo.Value() == hi.Value() && !lo.Open() && !hi.Open())
	case kindValue:
		return o.contains(r.value)
	case kindStart:
		return o.valueBeforeEnd(r.start.Value())
	case kindEnd:
		return o.valuePastStart(r.end.Value())
	default: // Empty, Full
		return true
	}
}

// Union returns the smallest range covering both r and o. Requires that r
// and o overlap; callers that can't guarantee that should go through
// Range.Union instead, which keeps disjoint shards separate.
func (r SimpleRange[T]) Union(o SimpleRange[T]) SimpleRange[T] {
	switch {
	case r.kind == kindFull || o.kind == kindFull:
		return Full[T]()
	case r.kind == kindEmpty:
		return o
	case o.kind == kindEmpty:
		return r
	}

	// Normalize Value into Values(Closed, Closed) so the remaining cases only
	// need to handle Values/Start/End combinations.
	rv, rIsValues := r.asValues()
	ov, oIsValues := o.asValues()

	switch {
	case rIsValues && oIsValues:
		return Values(minStart(rv.start, ov.start), maxEnd(rv.end, ov.end))
	case rIsValues && o.kind == kindStart:
		return FromStart(minStart(rv.start, o.start))
	case oIsValues && r.kind == kindStart:
		return FromStart(minStart(r.start, ov.start))
	case rIsValues && o.kind == kindEnd:
		return FromEnd(maxEnd(rv.end, o.end))
	case oIsValues && r.kind == kindEnd:
		return FromEnd(maxEnd(r.end, ov.end))
	case r.kind == kindStart && o.kind == kindStart:
		return FromStart(minStart(r.start, o.start))
	case r.kind == kindEnd && o.kind == kindEnd:
		return FromEnd(maxEnd(r.end, o.end))
	case (r.kind == kindStart && o.kind == kindEnd) || (r.kind == kindEnd && o.kind == kindStart):
		return Full[T]()
	default:
		return Full[T]()
	}
}

// Intersection returns the overlap of r and o.
func (r SimpleRange[T]) Intersection(o SimpleRange[T]) SimpleRange[T] {
	switch {
	case r.kind == kindEmpty || o.kind == kindEmpty:
		return Empty[T]()
	case r.kind == kindFull:
		return o
	case o.kind == kindFull:
		return r
	case r.kind == kindValue:
		return r
	case o.kind == kindValue:
		return o
	}

	rv, rIsValues := r.asValues()
	ov, oIsValues := o.asValues()

	switch {
	case rIsValues && oIsValues:
		return Values(maxStart(rv.start, ov.start), minEnd(rv.end, ov.end))
	case rIsValues && o.kind == kindStart:
		return Values(maxStart(rv.start, o.start), rv.end)
	case oIsValues && r.kind == kindStart:
		return Values(maxStart(r.start, ov.start), ov.end)
	case rIsValues && o.kind == kindEnd:
		return Values(rv.start, minEnd(rv.end, o.end))
	case oIsValues && r.kind == kindEnd:
		return Values(ov.start, minEnd(r.end, ov.end))
	case r.kind == kindStart && o.kind == kindStart:
		return FromStart(maxStart(r.start, o.start))
	case r.kind == kindEnd && o.kind == kindEnd:
		return FromEnd(minEnd(r.end, o.end))
	case r.kind == kindStart && o.kind == kindEnd:
		return Values(r.start, o.end)
	case r.kind == kindEnd && o.kind == kindStart:
		return Values(o.start, r.end)
	default:
		return Empty[T]()
	}
}

// asValues normalizes a Value range into (Closed(v), Closed(v)) so Union and
// Intersection only need to special-case Empty/Full/Value once, up front.
func (r SimpleRange[T]) asValues() (struct {
	start Start[T]
	end   End[T]
}, bool) {
	switch r.kind {
	case kindValues:
		return struct {
			start Start[T]
			end   End[T]
		}{r.start, r.end}, true
	case kindValue:
		return struct {
			start Start[T]
			end   End[T]
		}{ClosedStart(r.value), ClosedEnd(r.value)}, true
	default:
		return struct {
			start Start[T]
			end   End[T]
		}{}, false
	}
}

// Start returns the range's lower bound, if it has one.
func (r SimpleRange[T]) Start() (T, bool) {
	switch r.kind {
	case kindValue:
		return r.value, true
	case kindValues:
		return r.start.Value(), true
	case kindStart:
		return r.start.Value(), true
	default:
		var zero T
		return zero, false
	}
}

// End returns the range's upper bound, if it has one.
func (r SimpleRange[T]) End() (T, bool) {
	switch r.kind {
	case kindValue:
		return r.value, true
	case kindValues:
		return r.end.Value(), true
	case kindEnd:
		return r.end.Value(), true
	default:
		var zero T
		return zero, false
	}
}

// IsEmpty reports whether r is the Empty shard.
func (r SimpleRange[T]) IsEmpty() bool { return r.kind == kindEmpty }

// IsFull reports whether r is the Full shard.
func (r SimpleRange[T]) IsFull() bool { return r.kind == kindFull }

// Equal reports structural equality, used by tests.
func (r SimpleRange[T]) Equal(o SimpleRange[T]) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case kindValue:
		return r.value == o.value
	case kindStart:
		return r.start == o.start
	case kindEnd:
		return r.end == o.end
	case kindValues:
		return r.start == o.start && r.end == o.end
	default:
		return true
	}
}
