package main

import (
	"fmt"
	"strconv"
	"strings"

	"pagedb/internal/schema"
)

// metaCommandResult mirrors the teacher's MetaCommandResult enum, extended
// with a third outcome (metaCommandExit) so the REPL can tell a command
// that ends the session apart from one that was handled in place.
type metaCommandResult int

const (
	metaCommandNotMeta metaCommandResult = iota
	metaCommandHandled
	metaCommandExit
)

// handleMetaCommand recognises a leading '.' command. Supported commands:
//
//	.exit                           quit the REPL
//	.tables                         list every table in the database
//	.create NAME pk:TYPE [col:TYPE ...]   create a new table
func (r *repl) handleMetaCommand(line string) metaCommandResult {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ".") {
		return metaCommandNotMeta
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ".exit":
		return metaCommandExit
	case ".tables":
		r.printTables()
		return metaCommandHandled
	case ".create":
		if err := r.createTable(fields[1:]); err != nil {
			fmt.Printf("error: %v\n", err)
		}
		return metaCommandHandled
	default:
		fmt.Printf("unrecognized command %q\n", fields[0])
		return metaCommandHandled
	}
}

func (r *repl) printTables() {
	names, err := r.db.Tables()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

// createTable parses `.create NAME pk:TYPE [col:TYPE ...]`, where TYPE is
// one of uint, int, float, string:N.
func (r *repl) createTable(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: .create NAME pk:TYPE [col:TYPE ...]")
	}
	name := args[0]
	primaryName, primaryType, err := parseColumnSpec(args[1])
	if err != nil {
		return err
	}
	if primaryType.Tag != schema.TypeUint {
		return fmt.Errorf("primary column %q must be declared uint", primaryName)
	}

	dataFields := make([]schema.FieldSpec, 0, len(args)-2)
	for _, arg := range args[2:] {
		colName, colType, err := parseColumnSpec(arg)
		if err != nil {
			return err
		}
		dataFields = append(dataFields, schema.FieldSpec{Name: colName, Type: colType})
	}

	_, err = r.db.CreateTable(name, primaryName, dataFields)
	return err
}

// parseColumnSpec parses one "name:type" or "name:string:N" token.
func parseColumnSpec(spec string) (string, schema.Type, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 {
		return "", schema.Type{}, fmt.Errorf("malformed column spec %q (want name:type)", spec)
	}
	name := parts[0]
	switch strings.ToLower(parts[1]) {
	case "uint":
		return name, schema.UintType(), nil
	case "int":
		return name, schema.IntType(), nil
	case "float":
		return name, schema.FloatType(), nil
	case "string":
		if len(parts) != 3 {
			return "", schema.Type{}, fmt.Errorf("string column %q needs a length (name:string:N)", spec)
		}
		n, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return "", schema.Type{}, fmt.Errorf("bad string length in %q: %w", spec, err)
		}
		return name, schema.StringType(n), nil
	default:
		return "", schema.Type{}, fmt.Errorf("unknown column type %q", parts[1])
	}
}
