package rangeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalStartOrdering(t *testing.T) {
	assert.Equal(t, -1, OpenStart(5).Compare(OpenStart(10)))
	assert.Equal(t, -1, ClosedStart(5).Compare(ClosedStart(10)))
	assert.Equal(t, -1, ClosedStart(10).Compare(OpenStart(10)),
		"a closed start at the same value sorts before an open one")
}

func TestIntervalEndOrdering(t *testing.T) {
	assert.Equal(t, -1, OpenEnd(5).Compare(OpenEnd(10)))
	assert.Equal(t, -1, ClosedEnd(5).Compare(ClosedEnd(10)))
	assert.Equal(t, 1, ClosedEnd(10).Compare(OpenEnd(10)),
		"a closed end at the same value sorts after an open one")
}

func TestSimpleRangeUnion(t *testing.T) {
	r := Values(OpenStart(3), OpenEnd(10)).Union(Values(OpenStart(4), ClosedEnd(10)))
	assert.True(t, r.Equal(Values(OpenStart[int](3), ClosedEnd[int](10))))

	r = FromStart(OpenStart(3)).Union(Values(OpenStart(2), ClosedEnd(10)))
	assert.True(t, r.Equal(FromStart[int](OpenStart(2))))

	r = FromEnd(OpenEnd(5)).Union(Values(OpenStart(2), ClosedEnd(10)))
	assert.True(t, r.Equal(FromEnd[int](ClosedEnd(10))))

	r = FromEnd(OpenEnd(5)).Union(FromStart(OpenStart(2)))
	assert.True(t, r.IsFull())

	r = Full[int]().Union(Values(OpenStart(10), ClosedEnd(15)))
	assert.True(t, r.IsFull())

	r = Empty[int]().Union(Values(OpenStart(4), ClosedEnd(10)))
	assert.True(t, r.Equal(Values(OpenStart[int](4), ClosedEnd[int](10))))

	r = Value(5).Union(Values(OpenStart(5), ClosedEnd(10)))
	assert.True(t, r.Equal(Values(ClosedStart[int](5), ClosedEnd[int](10))))
}

func TestSimpleRangeIntersection(t *testing.T) {
	r := Values(OpenStart(3), OpenEnd(10)).Intersection(Values(OpenStart(4), ClosedEnd(10)))
	assert.True(t, r.Equal(Values(OpenStart[int](4), OpenEnd[int](10))))

	r = FromStart(OpenStart(4)).Intersection(Values(OpenStart(2), ClosedEnd(10)))
	assert.True(t, r.Equal(Values(OpenStart[int](4), ClosedEnd[int](10))))

	r = FromEnd(OpenEnd(5)).Intersection(Values(OpenStart(2), ClosedEnd(10)))
	assert.True(t, r.Equal(Values(OpenStart[int](2), OpenEnd[int](5))))

	r = Full[int]().Intersection(Values(OpenStart(10), ClosedEnd(15)))
	assert.True(t, r.Equal(Values(OpenStart[int](10), ClosedEnd[int](15))))

	r = Empty[int]().Intersection(Values(OpenStart(4), ClosedEnd(10)))
	assert.True(t, r.IsEmpty())

	r = Value(6).Intersection(Values(OpenStart(5), ClosedEnd(10)))
	assert.True(t, r.Equal(Value[int](6)))
}

func TestRangeUnion(t *testing.T) {
	r := New(Values(OpenStart(4), OpenEnd(10)))
	r.Union(New(Values(OpenStart(5), ClosedEnd(8))))
	r.Union(New(Values(OpenStart(9), ClosedEnd(20))))

	assert.Len(t, r.Shards(), 1)
	assert.True(t, r.Shards()[0].Equal(Values(OpenStart[int](4), ClosedEnd[int](20))))
}

func TestRangeIntersection(t *testing.T) {
	r := New(Values(OpenStart(4), OpenEnd(10)))
	r.Union(New(Values(OpenStart(14), OpenEnd(20))))
	r.Intersection(New(Values(OpenStart(5), OpenEnd(16))))

	shards := r.Shards()
	assert.Len(t, shards, 2)
	assert.True(t, shards[0].Equal(Values(OpenStart[int](5), OpenEnd[int](10))))
	assert.True(t, shards[1].Equal(Values(OpenStart[int](14), OpenEnd[int](16))))
}
