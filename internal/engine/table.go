// Package engine ties the schema, btree, and expr packages together into
// Table and DB: statement execution, the filtering cursor, and the
// directory layout described in spec §6.
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"pagedb/internal/btree"
	"pagedb/internal/dblog"
	"pagedb/internal/pageio"
	"pagedb/internal/schema"
)

// Table is an open table: its data file, metadata file, and the B+tree
// rooted at Metadata.Root.
type Table struct {
	Name string

	pager    *pageio.Pager
	metaFile *os.File
	meta     *schema.Handler
	tree     *btree.Tree

	log logr.Logger
}

func tablePaths(dir, name string) (dataPath, metaPath string) {
	return filepath.Join(dir, name+".tbl"), filepath.Join(dir, name+".mt")
}

// CreateTable builds a new table's files in dir and persists its schema.
func CreateTable(dir, name string, primaryName string, dataFields []schema.FieldSpec, log logr.Logger) (*Table, error) {
	dataPath, metaPath := tablePaths(dir, name)
	if _, err := os.Stat(dataPath); err == nil {
		return nil, fmt.Errorf("engine: create table %q: %w", name, ErrTableAlreadyExists)
	}

	pager, fresh, err := pageio.Open(dataPath, log)
	if err != nil {
		return nil, fmt.Errorf("engine: create table %q: %w", name, err)
	}
	if !fresh {
		pager.Close()
		return nil, fmt.Errorf("engine: create table %q: data file already populated", name)
	}

	meta, err := schema.New(pageio.PageNum(1), primaryName, dataFields)
	if err != nil {
		pager.Close()
		return nil, err
	}

	tree, err := btree.Open(pager, meta.EntrySize().Aligned, fresh, log)
	if err != nil {
		pager.Close()
		return nil, err
	}
	meta.Root = tree.Root

	metaFile, err := os.OpenFile(metaPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		pager.Close()
		return nil, fmt.Errorf("engine: create table %q: %w", name, err)
	}
	if err := pageio.LockExclusive(metaFile); err != nil {
		metaFile.Close()
		pager.Close()
		return nil, fmt.Errorf("engine: lock metadata for %q: %w", name, err)
	}
	handler := schema.CreateHandler(metaFile, meta)
	if err := handler.Flush(); err != nil {
		metaFile.Close()
		pager.Close()
		return nil, err
	}

	return &Table{
		Name:     name,
		pager:    pager,
		metaFile: metaFile,
		meta:     handler,
		tree:     tree,
		log:      dblog.Named(log, "table:"+name),
	}, nil
}

// OpenTable reopens a table previously created by CreateTable.
func OpenTable(dir, name string, log logr.Logger) (*Table, error) {
	dataPath, metaPath := tablePaths(dir, name)
	if _, err := os.Stat(dataPath); err != nil {
		return nil, fmt.Errorf("engine: open table %q: %w", name, ErrTableNotFound)
	}

	metaFile, err := os.OpenFile(metaPath, os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("engine: open table %q: %w", name, ErrTableNotFound)
	}
	if err := pageio.LockExclusive(metaFile); err != nil {
		metaFile.Close()
		return nil, fmt.Errorf("engine: lock metadata for %q: %w", name, err)
	}
	handler, err := schema.OpenHandler(metaFile)
	if err != nil {
		metaFile.Close()
		return nil, err
	}

	pager, _, err := pageio.Open(dataPath, log)
	if err != nil {
		metaFile.Close()
		return nil, err
	}

	tree := btree.OpenAt(pager, handler.Meta.Root, handler.Meta.EntrySize().Aligned, log)

	return &Table{
		Name:     name,
		pager:    pager,
		metaFile: metaFile,
		meta:     handler,
		tree:     tree,
		log:      dblog.Named(log, "table:"+name),
	}, nil
}

// Metadata exposes the table's schema.
func (t *Table) Metadata() *schema.Metadata { return t.meta.Meta }

// Close flushes the data file and metadata image and releases both locks,
// per spec §3's lifecycle and §5's locking policy.
func (t *Table) Close() error {
	t.meta.Meta.Root = t.tree.Root
	if err := t.meta.Flush(); err != nil {
		t.pager.Close()
		pageio.Unlock(t.metaFile)
		t.metaFile.Close()
		return err
	}
	err := t.pager.Close()
	if unlockErr := pageio.Unlock(t.metaFile); err == nil {
		err = unlockErr
	}
	if closeErr := t.metaFile.Close(); err == nil {
		err = closeErr
	}
	return err
}
