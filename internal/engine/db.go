package engine

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"pagedb/internal/dblog"
	"pagedb/internal/schema"
)

// DB is one database directory (spec §3) holding any number of named
// tables, each opened lazily on first reference and kept open until Close.
type DB struct {
	dir string
	log logr.Logger

	mu     sync.Mutex
	tables map[string]*Table
}

// Open binds a DB to dir, which must already exist.
func Open(dir string, log logr.Logger) (*DB, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("engine: open db %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("engine: open db %q: not a directory", dir)
	}
	return &DB{
		dir:    dir,
		log:    dblog.Named(log, "db"),
		tables: make(map[string]*Table),
	}, nil
}

// CreateTable creates and registers a new table named name.
func (db *DB) CreateTable(name, primaryName string, dataFields []schema.FieldSpec) (*Table, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, open := db.tables[name]; open {
		return nil, fmt.Errorf("engine: create table %q: %w", name, ErrTableAlreadyExists)
	}
	t, err := CreateTable(db.dir, name, primaryName, dataFields, db.log)
	if err != nil {
		return nil, err
	}
	db.tables[name] = t
	return t, nil
}

// Table returns the named table, opening it from disk on first reference.
func (db *DB) Table(name string) (*Table, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if t, ok := db.tables[name]; ok {
		return t, nil
	}
	t, err := OpenTable(db.dir, name, db.log)
	if err != nil {
		return nil, err
	}
	db.tables[name] = t
	return t, nil
}

// Tables lists every table name present in the database directory, found
// by scanning for `.tbl` files, per spec §6's directory layout.
func (db *DB) Tables() ([]string, error) {
	entries, err := os.ReadDir(db.dir)
	if err != nil {
		return nil, fmt.Errorf("engine: list tables in %q: %w", db.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".tbl"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Close closes every table opened through db, aggregating the first error.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var firstErr error
	for name, t := range db.tables {
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("engine: close table %q: %w", name, err)
		}
		delete(db.tables, name)
	}
	return firstErr
}
