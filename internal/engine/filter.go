package engine

import (
	"fmt"

	"pagedb/internal/btree"
	"pagedb/internal/expr"
	"pagedb/internal/rangeset"
	"pagedb/internal/schema"
)

// FilterCursor drives the B+tree cursor over each extracted index interval
// in order, applying the residual predicate to every candidate row, per
// spec §4.11.
type FilterCursor struct {
	table    *Table
	residual expr.Expression
	fields   []string

	shards   []rangeset.SimpleRange[uint64]
	shardIdx int
	cur      btree.Cursor
	curValid bool
	prevCur  btree.Cursor
}

// NewFilterCursor builds a filtering cursor for predicate (nil means no
// WHERE clause: a full scan with an always-true residual).
func NewFilterCursor(t *Table, predicate expr.Expression) (*FilterCursor, error) {
	if predicate == nil {
		predicate = expr.EmptyExpr
	}
	primaryName := t.Metadata().Primary().Name
	residual, rng := expr.ExtractIndex(predicate, primaryName)

	fc := &FilterCursor{
		table:    t,
		residual: residual,
		fields:   expr.Fields(residual),
		shards:   rng.Shards(),
	}
	if err := fc.seekShard(0); err != nil {
		return nil, err
	}
	return fc, nil
}

// seekShard positions the cursor at the start of shards[idx], skipping
// empty shards, until a non-empty shard is found or shards are exhausted.
func (fc *FilterCursor) seekShard(idx int) error {
	for idx < len(fc.shards) {
		shard := fc.shards[idx]
		if shard.IsEmpty() {
			idx++
			continue
		}
		var cur btree.Cursor
		var ok bool
		var err error
		if start, has := shard.Start(); has {
			cur, err = fc.table.tree.FindCursor(start)
			if err != nil {
				return err
			}
			ok = true
			if _, _, cellErr := fc.table.tree.Cell(cur); cellErr != nil {
				// The lower bound lies past the leaf's last cell: move on
				// to the first cell of the next leaf, if any.
				cur, ok, err = fc.table.tree.Advance(cur)
				if err != nil {
					return err
				}
			}
		} else {
			cur, ok, err = fc.table.tree.First()
			if err != nil {
				return err
			}
		}
		fc.shardIdx = idx
		fc.cur = cur
		fc.curValid = ok
		return nil
	}
	fc.shardIdx = idx
	fc.curValid = false
	return nil
}

// literalFor resolves name to a Literal for the row at (key, record):
// the primary field's value comes from the cell key, every other field is
// decoded out of the record per its Metadata layout.
func (fc *FilterCursor) literalFor(name string, key uint64, record []byte) (schema.Literal, error) {
	meta := fc.table.Metadata()
	if name == meta.Primary().Name {
		return schema.Uint(key), nil
	}
	f, ok := meta.Field(name)
	if !ok {
		return schema.Literal{}, fmt.Errorf("engine: %w: %q", ErrFieldNotFound, name)
	}
	return f.Read(record), nil
}

// Next advances to the next row satisfying both the extracted range and
// the residual predicate. ok is false once every shard is exhausted.
func (fc *FilterCursor) Next() (key uint64, record []byte, ok bool, err error) {
	for fc.shardIdx < len(fc.shards) {
		if !fc.curValid {
			if err := fc.seekShard(fc.shardIdx + 1); err != nil {
				return 0, nil, false, err
			}
			continue
		}

		shard := fc.shards[fc.shardIdx]
		k, rec, err := fc.table.tree.Cell(fc.cur)
		if err != nil {
			return 0, nil, false, err
		}

		if !shard.ValuePastStart(k) {
			if err := fc.step(); err != nil {
				return 0, nil, false, err
			}
			continue
		}
		if !shard.ValueBeforeEnd(k) {
			if err := fc.seekShard(fc.shardIdx + 1); err != nil {
				return 0, nil, false, err
			}
			continue
		}

		pass, err := fc.evalResidual(k, rec)
		if err != nil {
			return 0, nil, false, err
		}
		if err := fc.step(); err != nil {
			return 0, nil, false, err
		}
		if !pass {
			continue
		}
		return k, rec, true, nil
	}
	return 0, nil, false, nil
}

// LastCursor exposes the position the most recent Next() returned a row
// from, so UPDATE can write back in place without a second Find.
func (fc *FilterCursor) LastCursor() btree.Cursor { return fc.prevCur }

func (fc *FilterCursor) step() error {
	fc.prevCur = fc.cur
	next, ok, err := fc.table.tree.Advance(fc.cur)
	if err != nil {
		return err
	}
	fc.cur = next
	fc.curValid = ok
	return nil
}

func (fc *FilterCursor) evalResidual(key uint64, record []byte) (bool, error) {
	i := 0
	var resolveErr error
	next := func() (schema.Literal, bool) {
		if i >= len(fc.fields) || resolveErr != nil {
			return schema.Literal{}, false
		}
		name := fc.fields[i]
		i++
		lit, err := fc.literalFor(name, key, record)
		if err != nil {
			resolveErr = err
			return schema.Literal{}, false
		}
		return lit, true
	}
	pass, err := expr.Eval(fc.residual, next)
	if resolveErr != nil {
		return false, resolveErr
	}
	return pass, err
}
