package sql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagedb/internal/engine"
	"pagedb/internal/expr"
	"pagedb/internal/schema"
)

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t`)
	require.NoError(t, err)
	sel, ok := stmt.(engine.SelectStmt)
	require.True(t, ok)
	require.Equal(t, "t", sel.Table)
	require.Nil(t, sel.Columns)
	require.Nil(t, sel.Where)
}

func TestParseSelectColumnsAndLimitSkip(t *testing.T) {
	stmt, err := Parse(`SELECT id,int FROM t WHERE id > 3 AND int >= 10 LIMIT 2 SKIP 2`)
	require.NoError(t, err)
	sel, ok := stmt.(engine.SelectStmt)
	require.True(t, ok)
	require.Equal(t, []string{"id", "int"}, sel.Columns)
	require.NotNil(t, sel.Limit)
	require.Equal(t, uint64(2), *sel.Limit)
	require.Equal(t, uint64(2), sel.Skip)

	want := expr.And{
		Left:  expr.Binary{Left: "id", Op: expr.MoreThan, Right: schema.Uint(3)},
		Right: expr.Binary{Left: "int", Op: expr.MoreThanEquals, Right: schema.Uint(10)},
	}
	require.Equal(t, want, sel.Where)
}

func TestParseSelectParenthesisedAndChain(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE (id > 2 AND id <= 9 AND string = "match") LIMIT 2 SKIP 1`)
	require.NoError(t, err)
	sel, ok := stmt.(engine.SelectStmt)
	require.True(t, ok)

	want := expr.And{
		Left: expr.And{
			Left:  expr.Binary{Left: "id", Op: expr.MoreThan, Right: schema.Uint(2)},
			Right: expr.Binary{Left: "id", Op: expr.LessThanEquals, Right: schema.Uint(9)},
		},
		Right: expr.Binary{Left: "string", Op: expr.Equals, Right: schema.String("match")},
	}
	require.Equal(t, want, sel.Where)
}

func TestParseMixedOperatorsWithoutParensFails(t *testing.T) {
	_, err := Parse(`SELECT * FROM t WHERE id > 2 AND id < 9 OR string = "x"`)
	require.Error(t, err)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse(`INSERT INTO t (id, int, string) VALUES (1, -51, "match")`)
	require.NoError(t, err)
	ins, ok := stmt.(engine.InsertStmt)
	require.True(t, ok)
	require.Equal(t, "t", ins.Table)
	require.Equal(t, []engine.ColumnValue{
		{Name: "id", Value: schema.Uint(1)},
		{Name: "int", Value: schema.Int(-51)},
		{Name: "string", Value: schema.String("match")},
	}, ins.Values)
}

func TestParseUpdate(t *testing.T) {
	stmt, err := Parse(`UPDATE t SET int = -51 WHERE (id > 2 AND id <= 9 AND string = "match") LIMIT 2 SKIP 1`)
	require.NoError(t, err)
	upd, ok := stmt.(engine.UpdateStmt)
	require.True(t, ok)
	require.Equal(t, "t", upd.Table)
	require.Equal(t, []engine.ColumnValue{{Name: "int", Value: schema.Int(-51)}}, upd.Set)
	require.NotNil(t, upd.Limit)
	require.Equal(t, uint64(2), *upd.Limit)
	require.Equal(t, uint64(1), upd.Skip)
}

func TestParseDeleteAlwaysParses(t *testing.T) {
	stmt, err := Parse(`DELETE FROM t WHERE id = 1`)
	require.NoError(t, err)
	del, ok := stmt.(engine.DeleteStmt)
	require.True(t, ok)
	require.Equal(t, "t", del.Table)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := Parse(`SELECT * FROM t garbage`)
	require.Error(t, err)
}

func TestParseFloatAndNegativeLiterals(t *testing.T) {
	stmt, err := Parse(`INSERT INTO t (id, ratio) VALUES (1, -3.5)`)
	require.NoError(t, err)
	ins := stmt.(engine.InsertStmt)
	require.Equal(t, schema.Float(-3.5), ins.Values[1].Value)
}
