package btree

import (
	"sort"

	"pagedb/internal/pageio"
)

// InternalCell is one (key, child) routing entry. Key is the first key of
// the subtree to its right, so the child handles every key < Key; keys
// greater than or equal to the last cell's key route to the node's
// RightChild.
type InternalCell struct {
	Key   uint64
	Child pageio.PageNum
}

// Internal is the in-memory view of an internal (routing) page.
type Internal struct {
	Page       pageio.PageNum
	ParentPage pageio.PageNum
	Cells      []InternalCell
	RightChild pageio.PageNum
}

func newInternal(page, parent pageio.PageNum) *Internal {
	return &Internal{Page: page, ParentPage: parent}
}

func loadInternal(p *pageio.Page, page pageio.PageNum) *Internal {
	buf := p.Bytes()
	n := newInternal(page, readPageU64(buf[commonHeaderSize:commonHeaderSize+8]))
	numKeys := int(readU64(buf[commonHeaderSize+8 : commonHeaderSize+16]))
	n.RightChild = readPageU64(buf[commonHeaderSize+16 : commonHeaderSize+24])
	n.Cells = make([]InternalCell, numKeys)

	off := commonHeaderSize + internalHeaderSize
	cellSize := keySize + childSize
	for i := 0; i < numKeys; i++ {
		cell := buf[off : off+cellSize]
		key := readU64(cell[:keySize])
		child := readPageU64(cell[keySize:])
		n.Cells[i] = InternalCell{Key: key, Child: child}
		off += cellSize
	}
	return n
}

func (n *Internal) store(p *pageio.Page) {
	buf := p.Bytes()
	for i := range buf {
		buf[i] = 0
	}
	putPageNodeType(p, NodeInternal)
	putPageU64(buf[commonHeaderSize:commonHeaderSize+8], n.ParentPage)
	putU64(buf[commonHeaderSize+8:commonHeaderSize+16], uint64(len(n.Cells)))
	putPageU64(buf[commonHeaderSize+16:commonHeaderSize+24], n.RightChild)

	off := commonHeaderSize + internalHeaderSize
	cellSize := keySize + childSize
	for _, c := range n.Cells {
		cell := buf[off : off+cellSize]
		putU64(cell[:keySize], c.Key)
		putPageU64(cell[keySize:], c.Child)
		off += cellSize
	}
}

// findIndex returns the index of the first cell whose key is >= the search
// key; on an exact match it returns index+1 so the caller routes right,
// per spec §4.4 (cell[i].Key is the first key of the next child's subtree,
// so an exact match must descend into the next child).
// Returns len(Cells) when the key exceeds every stored key.
func (n *Internal) findIndex(key uint64) int {
	i := sort.Search(len(n.Cells), func(i int) bool {
		return n.Cells[i].Key >= key
	})
	if i < len(n.Cells) && n.Cells[i].Key == key {
		return i + 1
	}
	return i
}

// find returns the child page responsible for key.
func (n *Internal) find(key uint64) pageio.PageNum {
	i := n.findIndex(key)
	if i == len(n.Cells) {
		return n.RightChild
	}
	return n.Cells[i].Child
}

func (n *Internal) full() bool { return len(n.Cells) >= MaxInternalCells }

// insert splices (key, child) into the routing table per spec §4.4, where
// child is the new right sibling of the node currently covering key: if the
// insertion index is interior, cells shift right, the split node keeps the
// new cell (keys < key) and child takes over the shifted cell's range; if it
// lands past the end, the old RightChild is demoted into the new last cell
// and child becomes the new RightChild.
func (n *Internal) insert(key uint64, child pageio.PageNum) {
	idx := sort.Search(len(n.Cells), func(i int) bool {
		return n.Cells[i].Key >= key
	})
	if idx == len(n.Cells) {
		n.Cells = append(n.Cells, InternalCell{Key: key, Child: n.RightChild})
		n.RightChild = child
		return
	}
	n.Cells = append(n.Cells, InternalCell{})
	copy(n.Cells[idx+1:], n.Cells[idx:])
	n.Cells[idx] = InternalCell{Key: key, Child: n.Cells[idx+1].Child}
	n.Cells[idx+1].Child = child
}
