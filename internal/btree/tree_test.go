package btree

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"pagedb/internal/dblog"
	"pagedb/internal/pageio"
)

func discardLog() logr.Logger { return dblog.Discard }

const testRecordSize = 8 // one uint64 data field

func openTestTree(t *testing.T) *Tree {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "btree-*.tbl")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	pager, fresh, err := pageio.Open(f.Name(), discardLog())
	require.NoError(t, err)
	require.True(t, fresh)

	tree, err := Open(pager, testRecordSize, fresh, discardLog())
	require.NoError(t, err)
	return tree
}

func payloadOf(v uint64) []byte {
	b := make([]byte, testRecordSize)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func insertRange(t *testing.T, tree *Tree, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, tree.Insert(uint64(i), payloadOf(uint64(i))))
	}
}

func checkRange(t *testing.T, tree *Tree, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		got, err := tree.Find(uint64(i))
		require.NoError(t, err)
		require.Equal(t, uint64(i), binary.LittleEndian.Uint64(got))
	}
}

func TestDuplicateKey(t *testing.T) {
	tree := openTestTree(t)
	require.NoError(t, tree.Insert(0, payloadOf(20)))
	err := tree.Insert(0, payloadOf(20))
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestFillLeaf(t *testing.T) {
	tree := openTestTree(t)
	n := tree.maxLeaf
	insertRange(t, tree, n)
	checkRange(t, tree, n)
}

func TestSplitLeafNode(t *testing.T) {
	tree := openTestTree(t)
	n := tree.maxLeaf + tree.maxLeaf/2
	insertRange(t, tree, n)
	checkRange(t, tree, n)
}

func TestFillInternalNode(t *testing.T) {
	tree := openTestTree(t)
	maxLeaf := tree.maxLeaf
	n := maxLeaf + MaxInternalCells*(maxLeaf/2) + 1
	insertRange(t, tree, n)
	checkRange(t, tree, n)
}

func TestSplitInternalNode(t *testing.T) {
	tree := openTestTree(t)
	maxLeaf := tree.maxLeaf
	half := MaxInternalCells - 1
	maxPerInternal := maxLeaf + half*(maxLeaf/2)
	n := maxPerInternal + maxPerInternal/2
	insertRange(t, tree, n)
	checkRange(t, tree, n)
}

func TestAdvancingCursor(t *testing.T) {
	tree := openTestTree(t)
	maxLeaf := tree.maxLeaf
	half := MaxInternalCells - 1
	maxPerInternal := maxLeaf + half*(maxLeaf/2)
	n := maxPerInternal + maxPerInternal/2
	insertRange(t, tree, n)

	cur, ok, err := tree.First()
	require.NoError(t, err)
	require.True(t, ok)

	seen := 0
	for {
		key, payload, err := tree.Cell(cur)
		require.NoError(t, err)
		require.Equal(t, uint64(seen), key)
		require.Equal(t, uint64(seen), binary.LittleEndian.Uint64(payload))
		seen++

		next, ok, err := tree.Advance(cur)
		require.NoError(t, err)
		if !ok {
			break
		}
		cur = next
	}
	require.Equal(t, n, seen)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/test.tbl"

	pager, fresh, err := pageio.Open(path, discardLog())
	require.NoError(t, err)
	tree, err := Open(pager, testRecordSize, fresh, discardLog())
	require.NoError(t, err)
	require.NoError(t, tree.Insert(0, payloadOf(10)))
	require.NoError(t, pager.Close())

	pager2, fresh2, err := pageio.Open(path, discardLog())
	require.NoError(t, err)
	require.False(t, fresh2)
	tree2 := OpenAt(pager2, tree.Root, testRecordSize, discardLog())
	got, err := tree2.Find(0)
	require.NoError(t, err)
	require.Equal(t, uint64(10), binary.LittleEndian.Uint64(got))
}
