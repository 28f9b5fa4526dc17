package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagedb/internal/dblog"
	"pagedb/internal/schema"
)

func testFields() []schema.FieldSpec {
	return []schema.FieldSpec{
		{Name: "int", Type: schema.IntType()},
		{Name: "string", Type: schema.StringType(16)},
	}
}

func TestCreateTableThenOpen(t *testing.T) {
	dir := t.TempDir()

	created, err := CreateTable(dir, "widgets", "id", testFields(), dblog.Discard)
	require.NoError(t, err)
	require.Equal(t, "widgets", created.Name)
	require.NoError(t, created.Close())

	reopened, err := OpenTable(dir, "widgets", dblog.Discard)
	require.NoError(t, err)
	defer reopened.Close()

	meta := reopened.Metadata()
	require.Equal(t, "id", meta.Primary().Name)
	require.Len(t, meta.DataFields(), 2)
}

func TestCreateTableAlreadyExists(t *testing.T) {
	dir := t.TempDir()

	t1, err := CreateTable(dir, "widgets", "id", testFields(), dblog.Discard)
	require.NoError(t, err)
	defer t1.Close()

	_, err = CreateTable(dir, "widgets", "id", testFields(), dblog.Discard)
	require.ErrorIs(t, err, ErrTableAlreadyExists)
}

func TestOpenTableNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenTable(dir, "missing", dblog.Discard)
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestOpenTableLockedByAnotherHandle(t *testing.T) {
	dir := t.TempDir()

	t1, err := CreateTable(dir, "widgets", "id", testFields(), dblog.Discard)
	require.NoError(t, err)
	defer t1.Close()

	_, err = OpenTable(dir, "widgets", dblog.Discard)
	require.Error(t, err)
}

func TestDBCreateOpenCloseRoundTrip(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir, dblog.Discard)
	require.NoError(t, err)

	_, err = db.CreateTable("widgets", "id", testFields())
	require.NoError(t, err)

	names, err := db.Tables()
	require.NoError(t, err)
	require.Equal(t, []string{"widgets"}, names)

	_, err = db.CreateTable("widgets", "id", testFields())
	require.ErrorIs(t, err, ErrTableAlreadyExists)

	require.NoError(t, db.Close())

	db2, err := Open(dir, dblog.Discard)
	require.NoError(t, err)
	defer db2.Close()

	tbl, err := db2.Table("widgets")
	require.NoError(t, err)
	require.Equal(t, "widgets", tbl.Name)
}
