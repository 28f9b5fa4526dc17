package rangeset

import "cmp"

// Comparison mirrors the predicate operators that a WHERE clause can bind an
// index to. It is declared here (rather than imported from expr) so
// rangeset has no dependency on the expression package.
type Comparison uint8

const (
	Equals Comparison = iota
	NotEquals
	MoreThanEquals
	MoreThan
	LessThanEquals
	LessThan
)

// FromComparison builds the SimpleRange a single `field OP value` predicate
// constrains an index to.
func FromComparison[T cmp.Ordered](c Comparison, v T) SimpleRange[T] {
	switch c {
	case Equals:
		return Value(v)
	case MoreThanEquals:
		return FromStart(ClosedStart(v))
	case MoreThan:
		return FromStart(OpenStart(v))
	case LessThanEquals:
		return FromEnd(ClosedEnd(v))
	case LessThan:
		return FromEnd(OpenEnd(v))
	case NotEquals:
		// (-inf, v) or (v, +inf): two disjoint shards, no single SimpleRange
		// can express it. FromComparisonRange builds the two-shard Range
		// New(FromEnd(OpenEnd(v))) plus FromStart(OpenStart(v)) instead.
		return Full[T]()
	default:
		return Empty[T]()
	}
}

// Range is a disjunction of SimpleRanges: a value matches the Range if it
// falls in any shard. Shards that turn out redundant or empty after
// intersection are not coalesced away; spec-compliant callers filter them
// out (or simply let an Empty shard contribute nothing) rather than relying
// on Range to normalize itself.
type Range[T cmp.Ordered] struct {
	shards []SimpleRange[T]
}

// New wraps a single SimpleRange as a Range.
func New[T cmp.Ordered](r SimpleRange[T]) *Range[T] {
	return &Range[T]{shards: []SimpleRange[T]{r}}
}

// FromComparisonRange builds a Range directly from a predicate operator,
// handling NotEquals' two-shard shape that SimpleRange alone cannot express.
func FromComparisonRange[T cmp.Ordered](c Comparison, v T) *Range[T] {
	if c == NotEquals {
		r := New(FromEnd[T](OpenEnd(v)))
		r.pushUnion(FromStart(OpenStart(v)))
		return r
	}
	return New(FromComparison(c, v))
}

func (r *Range[T]) pushUnion(shard SimpleRange[T]) {
	next := make([]SimpleRange[T], 0, len(r.shards)+1)
	union := shard
	for _, s := range r.shards {
		if union.Overlaps(s) {
			union = union.Union(s)
		} else {
			next = append(next, s)
		}
	}
	next = append(next, union)
	r.shards = next
}

// Union merges other into r in place.
func (r *Range[T]) Union(other *Range[T]) {
	for _, s := range other.shards {
		r.pushUnion(s)
	}
}

func (r *Range[T]) pushIntersection(shard SimpleRange[T]) {
	for i, s := range r.shards {
		if shard.Overlaps(s) {
			r.shards[i] = shard.Intersection(s)
		}
	}
}

// Intersection narrows r in place to the overlap with other. Shards of r
// that don't overlap any shard of other are left untouched, mirroring the
// original implementation: callers needing a clean result should expect
// some stale or empty shards to remain rather than being pruned.
func (r *Range[T]) Intersection(other *Range[T]) {
	for _, s := range other.shards {
		r.pushIntersection(s)
	}
}

// Shards returns the underlying disjunction, in no particular order.
func (r *Range[T]) Shards() []SimpleRange[T] { return r.shards }
