// Package btree implements the on-disk B+tree: leaf and internal node
// layouts over pageio.Page, point lookup, ordered-scan cursor, and insert
// with leaf/internal splits propagated up to the root.
package btree

import (
	"encoding/binary"

	"pagedb/internal/pageio"
)

// NodeType tags a page as holding a leaf or internal node.
type NodeType uint8

const (
	NodeInternal NodeType = 0
	NodeLeaf     NodeType = 1
)

const (
	nodeTypeOffset = 0
	// Every node's type tag is padded to 8 bytes before the node-specific
	// header begins, keeping every field 8-byte aligned per spec §6.
	commonHeaderSize = 8

	keySize  = 8
	childSize = 8

	leafHeaderSize     = 8 + 8       // parent_page, num_cells
	internalHeaderSize = 8 + 8 + 8   // parent_page, num_keys, right_child
)

func pageNodeType(p *pageio.Page) NodeType {
	return NodeType(p.Bytes()[nodeTypeOffset])
}

func putPageNodeType(p *pageio.Page, t NodeType) {
	p.Bytes()[nodeTypeOffset] = byte(t)
}

// u64 helpers operate on 8-byte fields (parent pointers, counts, keys) that
// spec §6 declares as native-endian 8-byte values even though PageNum
// itself is a uint32; the wider on-disk width leaves room to grow without
// another format break.
func readU64(b []byte) uint64      { return binary.LittleEndian.Uint64(b) }
func putU64(b []byte, v uint64)    { binary.LittleEndian.PutUint64(b, v) }
func readPageU64(b []byte) pageio.PageNum {
	return pageio.PageNum(binary.LittleEndian.Uint64(b))
}
func putPageU64(b []byte, n pageio.PageNum) {
	binary.LittleEndian.PutUint64(b, uint64(n))
}

// MaxLeafCells computes the leaf fan-out for a given aligned record size,
// per spec §3's "(PAGE_SIZE - page_header - leaf_header) / (key_size +
// record_size_aligned)".
func MaxLeafCells(recordSize uint64) int {
	avail := pageio.PageSize - commonHeaderSize - leafHeaderSize
	cellSize := keySize + recordSize
	return avail / int(cellSize)
}

// MaxInternalCells is a compile-time constant derived from PAGE_SIZE, per
// spec §3.
const MaxInternalCells = (pageio.PageSize - commonHeaderSize - internalHeaderSize) / (keySize + childSize)

// splitCount is ceil(max/2): the number of cells retained in the left node
// after a split, per spec §4.3.
func splitCount(max int) int {
	return (max + 1) / 2
}
