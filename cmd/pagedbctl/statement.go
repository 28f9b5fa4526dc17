package main

import (
	"fmt"

	"pagedb/internal/engine"
	"pagedb/internal/sql"
)

// execute parses line as a statement and runs it against the table it
// names, printing SELECT rows or a row count as appropriate.
func (r *repl) execute(line string) error {
	stmt, err := sql.Parse(line)
	if err != nil {
		return err
	}

	switch s := stmt.(type) {
	case engine.SelectStmt:
		t, err := r.db.Table(s.Table)
		if err != nil {
			return err
		}
		result, err := engine.ExecuteSelect(t, s)
		if err != nil {
			return err
		}
		printSelectResult(result)
		return nil

	case engine.InsertStmt:
		t, err := r.db.Table(s.Table)
		if err != nil {
			return err
		}
		if err := engine.ExecuteInsert(t, s); err != nil {
			return err
		}
		fmt.Println("INSERT 1")
		return nil

	case engine.UpdateStmt:
		t, err := r.db.Table(s.Table)
		if err != nil {
			return err
		}
		count, err := engine.ExecuteUpdate(t, s)
		if err != nil {
			return err
		}
		fmt.Printf("UPDATE %d\n", count)
		return nil

	case engine.DeleteStmt:
		t, err := r.db.Table(s.Table)
		if err != nil {
			return err
		}
		return engine.ExecuteDelete(t, s)

	default:
		return fmt.Errorf("pagedbctl: unrecognized statement result %T", stmt)
	}
}

func printSelectResult(result *engine.SelectResult) {
	for i := 0; i < result.Rows.Len(); i++ {
		row := result.Rows.Row(i)
		for j, lit := range row {
			if j > 0 {
				fmt.Print(" | ")
			}
			fmt.Print(lit.String())
		}
		fmt.Println()
	}
}
