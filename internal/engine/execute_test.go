package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagedb/internal/dblog"
	"pagedb/internal/expr"
	"pagedb/internal/schema"
)

func openTestTable(t *testing.T) *Table {
	t.Helper()
	dir := t.TempDir()
	tbl, err := CreateTable(dir, "t", "id", []schema.FieldSpec{
		{Name: "int", Type: schema.IntType()},
		{Name: "string", Type: schema.StringType(16)},
	}, dblog.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { tbl.Close() })
	return tbl
}

func insertRow(t *testing.T, tbl *Table, id uint64, intVal int64, s string) {
	t.Helper()
	err := ExecuteInsert(tbl, InsertStmt{
		Table: "t",
		Values: []ColumnValue{
			{Name: "id", Value: schema.Uint(id)},
			{Name: "int", Value: schema.Int(intVal)},
			{Name: "string", Value: schema.String(s)},
		},
	})
	require.NoError(t, err)
}

// TestInsertThenSelectAll fills a table with a handful of rows and checks
// that an unfiltered SELECT returns them in key order (spec §8, S1).
func TestInsertThenSelectAll(t *testing.T) {
	tbl := openTestTable(t)
	for i := uint64(0); i < 5; i++ {
		insertRow(t, tbl, i, int64(i)*10, "row")
	}

	result, err := ExecuteSelect(tbl, SelectStmt{Table: "t", Columns: []string{"id", "int"}})
	require.NoError(t, err)
	require.Equal(t, 5, result.Rows.Len())
	for i := 0; i < 5; i++ {
		row := result.Rows.Row(i)
		require.Equal(t, schema.Uint(uint64(i)), row[0])
		require.Equal(t, schema.Int(int64(i)*10), row[1])
	}
}

// TestInsertDuplicateKeyFails inserts the same primary key twice (spec §8,
// S4): the second insert must fail rather than silently overwrite.
func TestInsertDuplicateKeyFails(t *testing.T) {
	tbl := openTestTable(t)
	insertRow(t, tbl, 1, 100, "first")

	err := ExecuteInsert(tbl, InsertStmt{
		Table: "t",
		Values: []ColumnValue{
			{Name: "id", Value: schema.Uint(1)},
			{Name: "int", Value: schema.Int(200)},
			{Name: "string", Value: schema.String("second")},
		},
	})
	require.Error(t, err)
}

func TestInsertMissingPrimaryFails(t *testing.T) {
	tbl := openTestTable(t)
	err := ExecuteInsert(tbl, InsertStmt{
		Table: "t",
		Values: []ColumnValue{
			{Name: "int", Value: schema.Int(1)},
		},
	})
	require.Error(t, err)
}

func TestInsertTypeMismatchFails(t *testing.T) {
	tbl := openTestTable(t)
	err := ExecuteInsert(tbl, InsertStmt{
		Table: "t",
		Values: []ColumnValue{
			{Name: "id", Value: schema.Uint(1)},
			{Name: "int", Value: schema.String("not an int")},
		},
	})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

// TestSelectWithRangeExtractionAndResidual exercises the combined
// extracted-range plus residual-predicate path of the filtering cursor
// (spec §8, S5): keys 0..10, an `int` column deliberately NOT equal to the
// key so the AND's two sides disagree on which rows survive — the `id > 3`
// side is served by the extracted index range, the `int >= 40` side by the
// residual check the cursor applies per candidate row.
func TestSelectWithRangeExtractionAndResidual(t *testing.T) {
	tbl := openTestTable(t)
	for i := uint64(0); i <= 10; i++ {
		// int = 100 - 10*id: strictly decreasing, so "id > 3" and
		// "int >= 40" together select a contiguous middle band (ids 4..6).
		insertRow(t, tbl, i, 100-10*int64(i), "row")
	}

	where := expr.And{
		Left:  expr.Binary{Left: "id", Op: expr.MoreThan, Right: schema.Uint(3)},
		Right: expr.Binary{Left: "int", Op: expr.MoreThanEquals, Right: schema.Int(40)},
	}
	limit := uint64(2)
	result, err := ExecuteSelect(tbl, SelectStmt{
		Table:   "t",
		Columns: []string{"id", "int"},
		Where:   where,
		Limit:   &limit,
		Skip:    0,
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Rows.Len())
	require.Equal(t, []schema.Literal{schema.Uint(4), schema.Int(60)}, result.Rows.Row(0))
	require.Equal(t, []schema.Literal{schema.Uint(5), schema.Int(50)}, result.Rows.Row(1))
}

func TestSelectSkipOffsetsIntoFilteredResults(t *testing.T) {
	tbl := openTestTable(t)
	for i := uint64(0); i <= 10; i++ {
		insertRow(t, tbl, i, 100-10*int64(i), "row")
	}

	where := expr.And{
		Left:  expr.Binary{Left: "id", Op: expr.MoreThan, Right: schema.Uint(3)},
		Right: expr.Binary{Left: "int", Op: expr.MoreThanEquals, Right: schema.Int(40)},
	}
	result, err := ExecuteSelect(tbl, SelectStmt{
		Table:   "t",
		Columns: []string{"id"},
		Where:   where,
		Skip:    2,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Rows.Len())
	require.Equal(t, []schema.Literal{schema.Uint(6)}, result.Rows.Row(0))
}

// TestUpdateWithParenthesisedRange mirrors spec §8 S6's parenthesised
// three-way AND chain: (id > 2 AND id <= 9 AND string = "match").
func TestUpdateWithParenthesisedRange(t *testing.T) {
	tbl := openTestTable(t)
	for i := uint64(0); i <= 10; i++ {
		s := "other"
		if i == 5 || i == 6 {
			s = "match"
		}
		insertRow(t, tbl, i, int64(i), s)
	}

	where := expr.And{
		Left: expr.And{
			Left:  expr.Binary{Left: "id", Op: expr.MoreThan, Right: schema.Uint(2)},
			Right: expr.Binary{Left: "id", Op: expr.LessThanEquals, Right: schema.Uint(9)},
		},
		Right: expr.Binary{Left: "string", Op: expr.Equals, Right: schema.String("match")},
	}
	count, err := ExecuteUpdate(tbl, UpdateStmt{
		Table: "t",
		Set:   []ColumnValue{{Name: "int", Value: schema.Int(-1)}},
		Where: where,
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	result, err := ExecuteSelect(tbl, SelectStmt{Table: "t", Columns: []string{"id", "int"}})
	require.NoError(t, err)
	for i := 0; i < result.Rows.Len(); i++ {
		row := result.Rows.Row(i)
		id := row[0].U
		if id == 5 || id == 6 {
			require.Equal(t, schema.Int(-1), row[1])
		} else {
			require.Equal(t, schema.Int(int64(id)), row[1])
		}
	}
}

func TestUpdatePrimaryColumnRejected(t *testing.T) {
	tbl := openTestTable(t)
	insertRow(t, tbl, 1, 1, "row")

	_, err := ExecuteUpdate(tbl, UpdateStmt{
		Table: "t",
		Set:   []ColumnValue{{Name: "id", Value: schema.Uint(2)}},
	})
	require.ErrorIs(t, err, ErrPrimaryReadOnly)
}

func TestDeleteIsNotImplemented(t *testing.T) {
	tbl := openTestTable(t)
	insertRow(t, tbl, 1, 1, "row")

	err := ExecuteDelete(tbl, DeleteStmt{Table: "t"})
	require.ErrorIs(t, err, ErrNotImplemented)

	result, selErr := ExecuteSelect(tbl, SelectStmt{Table: "t"})
	require.NoError(t, selErr)
	require.Equal(t, 1, result.Rows.Len())
}

func TestSelectUnknownColumnFails(t *testing.T) {
	tbl := openTestTable(t)
	insertRow(t, tbl, 1, 1, "row")

	_, err := ExecuteSelect(tbl, SelectStmt{Table: "t", Columns: []string{"nope"}})
	require.ErrorIs(t, err, ErrFieldNotFound)
}
