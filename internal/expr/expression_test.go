package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagedb/internal/schema"
)

func TestFields(t *testing.T) {
	e := And{
		Left:  Binary{Left: "id", Op: LessThan, Right: schema.Uint(5)},
		Right: Binary{Left: "test", Op: MoreThan, Right: schema.Uint(10)},
	}
	assert.Equal(t, []string{"id", "test"}, Fields(e))
}

func iterOf(lits ...schema.Literal) func() (schema.Literal, bool) {
	i := 0
	return func() (schema.Literal, bool) {
		if i >= len(lits) {
			return schema.Literal{}, false
		}
		l := lits[i]
		i++
		return l, true
	}
}

func TestEvalTrueExpression(t *testing.T) {
	e := And{
		Left:  Binary{Left: "id", Op: LessThan, Right: schema.Uint(5)},
		Right: Binary{Left: "test", Op: MoreThan, Right: schema.Uint(10)},
	}
	ok, err := Eval(e, iterOf(schema.Uint(1), schema.Uint(20)))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalFalseExpression(t *testing.T) {
	e := Or{
		Left:  Binary{Left: "id", Op: LessThan, Right: schema.Uint(5)},
		Right: Binary{Left: "test", Op: MoreThan, Right: schema.Uint(10)},
	}
	ok, err := Eval(e, iterOf(schema.Uint(9), schema.Uint(10)))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExtractIndexAnd(t *testing.T) {
	e := And{
		Left:  Binary{Left: "id", Op: MoreThan, Right: schema.Uint(5)},
		Right: Binary{Left: "id", Op: LessThanEquals, Right: schema.Uint(20)},
	}
	residual, rng := ExtractIndex(e, "id")
	assert.Equal(t, And{Left: EmptyExpr, Right: EmptyExpr}, residual)
	shards := rng.Shards()
	require.Len(t, shards, 1)
	v, ok := shards[0].Start()
	require.True(t, ok)
	assert.Equal(t, uint64(5), v)
}

func TestExtractIndexNoPredicate(t *testing.T) {
	residual, rng := ExtractIndex(EmptyExpr, "id")
	assert.Equal(t, EmptyExpr, residual)
	assert.True(t, rng.Shards()[0].IsFull())
}
