package engine

import (
	"fmt"

	"pagedb/internal/expr"
	"pagedb/internal/schema"
)

// ColumnValue pairs a column name with a literal, used by both the INSERT
// value list and the UPDATE SET list.
type ColumnValue struct {
	Name  string
	Value schema.Literal
}

// SelectStmt is `SELECT col,... FROM T [WHERE expr] [LIMIT N] [SKIP N]`,
// per spec §6. Columns nil or empty means every field, in schema order.
type SelectStmt struct {
	Table   string
	Columns []string
	Where   expr.Expression
	Limit   *uint64
	Skip    uint64
}

// InsertStmt is `INSERT INTO T (col,...) VALUES (lit,...)`. The column list
// must include the primary column.
type InsertStmt struct {
	Table  string
	Values []ColumnValue
}

// UpdateStmt is `UPDATE T SET col = lit,... [WHERE expr] [LIMIT N] [SKIP N]`.
// The primary column may not appear in Set.
type UpdateStmt struct {
	Table string
	Set   []ColumnValue
	Where expr.Expression
	Limit *uint64
	Skip  uint64
}

// DeleteStmt is `DELETE FROM T [WHERE expr]`, always rejected: spec §9
// leaves merge/rebalance on underflow undefined, so ExecuteDelete refuses
// it before any mutation rather than half-implementing it.
type DeleteStmt struct {
	Table string
	Where expr.Expression
}

// SelectResult is the output of a SELECT: the resolved column order and the
// matching rows, one literal per requested column per row.
type SelectResult struct {
	Columns []string
	Rows    *Rows
}

// ExecuteSelect runs stmt against t, applying the extracted range, the
// residual predicate, SKIP and then LIMIT, per spec §4.11 and §6.
func ExecuteSelect(t *Table, stmt SelectStmt) (*SelectResult, error) {
	cols := stmt.Columns
	if len(cols) == 0 {
		meta := t.Metadata()
		cols = make([]string, len(meta.Fields))
		for i, f := range meta.Fields {
			cols[i] = f.Name
		}
	}
	for _, name := range cols {
		if _, ok := t.Metadata().Field(name); !ok {
			return nil, fmt.Errorf("engine: select %q: %w: %q", stmt.Table, ErrFieldNotFound, name)
		}
	}

	fc, err := NewFilterCursor(t, stmt.Where)
	if err != nil {
		return nil, err
	}

	rows := NewRows(len(cols), 16)
	var skipped uint64
	var emitted uint64
	for {
		if stmt.Limit != nil && emitted >= *stmt.Limit {
			break
		}
		key, record, ok, err := fc.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if skipped < stmt.Skip {
			skipped++
			continue
		}

		row := make([]schema.Literal, len(cols))
		for i, name := range cols {
			lit, err := fc.literalFor(name, key, record)
			if err != nil {
				return nil, err
			}
			row[i] = lit
		}
		rows.Append(row)
		emitted++
	}

	return &SelectResult{Columns: cols, Rows: rows}, nil
}

// ExecuteInsert validates stmt.Values against the schema and inserts one new
// record via the B+tree, per spec §4.6 and §6.
func ExecuteInsert(t *Table, stmt InsertStmt) error {
	meta := t.Metadata()
	primaryName := meta.Primary().Name

	var key uint64
	haveKey := false
	record := make([]byte, meta.EntrySize().Aligned)
	seen := make(map[string]bool, len(stmt.Values))

	for _, cv := range stmt.Values {
		if seen[cv.Name] {
			return fmt.Errorf("engine: insert into %q: duplicate column %q", stmt.Table, cv.Name)
		}
		seen[cv.Name] = true

		if cv.Name == primaryName {
			if cv.Value.Kind != schema.KindUint {
				return fmt.Errorf("engine: insert into %q: primary column %q: %w", stmt.Table, cv.Name, ErrTypeMismatch)
			}
			key = cv.Value.U
			haveKey = true
			continue
		}

		f, ok := meta.Field(cv.Name)
		if !ok {
			return fmt.Errorf("engine: insert into %q: %w: %q", stmt.Table, ErrFieldNotFound, cv.Name)
		}
		if !literalMatchesType(cv.Value, f.Type) {
			return fmt.Errorf("engine: insert into %q: column %q: %w", stmt.Table, cv.Name, ErrTypeMismatch)
		}
		f.Write(cv.Value, record)
	}

	if !haveKey {
		return fmt.Errorf("engine: insert into %q: column list must include primary column %q", stmt.Table, primaryName)
	}

	if err := t.tree.Insert(key, record); err != nil {
		return err
	}
	meta.Root = t.tree.Root
	return nil
}

// ExecuteUpdate runs stmt against t, writing new literals into matching
// records in place and returning the number of rows modified, per spec
// §4.11 and §6.
func ExecuteUpdate(t *Table, stmt UpdateStmt) (int, error) {
	meta := t.Metadata()
	primaryName := meta.Primary().Name

	fields := make([]schema.Field, 0, len(stmt.Set))
	for _, cv := range stmt.Set {
		if cv.Name == primaryName {
			return 0, fmt.Errorf("engine: update %q: %w", stmt.Table, ErrPrimaryReadOnly)
		}
		f, ok := meta.Field(cv.Name)
		if !ok {
			return 0, fmt.Errorf("engine: update %q: %w: %q", stmt.Table, ErrFieldNotFound, cv.Name)
		}
		if !literalMatchesType(cv.Value, f.Type) {
			return 0, fmt.Errorf("engine: update %q: column %q: %w", stmt.Table, cv.Name, ErrTypeMismatch)
		}
		fields = append(fields, f)
	}

	fc, err := NewFilterCursor(t, stmt.Where)
	if err != nil {
		return 0, err
	}

	var skipped uint64
	var count int
	for {
		if stmt.Limit != nil && uint64(count) >= *stmt.Limit {
			break
		}
		_, record, ok, err := fc.Next()
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}
		if skipped < stmt.Skip {
			skipped++
			continue
		}

		updated := append([]byte(nil), record...)
		for i, f := range fields {
			f.Write(stmt.Set[i].Value, updated)
		}
		if err := t.tree.UpdatePayload(fc.LastCursor(), updated); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ExecuteDelete always fails with ErrNotImplemented, before touching the
// table, since merge/rebalance on leaf underflow is undefined (spec §9).
func ExecuteDelete(t *Table, stmt DeleteStmt) error {
	return fmt.Errorf("engine: delete from %q: %w", stmt.Table, ErrNotImplemented)
}

// literalMatchesType reports whether lit's Kind is compatible with t.
func literalMatchesType(lit schema.Literal, t schema.Type) bool {
	switch t.Tag {
	case schema.TypeUint:
		return lit.Kind == schema.KindUint
	case schema.TypeInt:
		return lit.Kind == schema.KindInt
	case schema.TypeFloat:
		return lit.Kind == schema.KindFloat
	case schema.TypeString:
		return lit.Kind == schema.KindString && uint64(len(lit.S)) <= t.Param
	default:
		return false
	}
}
