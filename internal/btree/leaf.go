package btree

import (
	"sort"

	"pagedb/internal/pageio"
)

// LeafCell is one (key, record) entry inside a leaf page.
type LeafCell struct {
	Key     uint64
	Payload []byte
}

// Leaf is the in-memory view of a leaf page: all records for this tree
// live in leaves, sorted ascending by key.
type Leaf struct {
	Page       pageio.PageNum
	ParentPage pageio.PageNum
	Cells      []LeafCell

	recordSize uint64
	maxCells   int
}

// newLeaf builds an empty leaf bound to page, ready to be filled and
// serialized.
func newLeaf(page, parent pageio.PageNum, recordSize uint64, maxCells int) *Leaf {
	return &Leaf{
		Page:       page,
		ParentPage: parent,
		recordSize: recordSize,
		maxCells:   maxCells,
	}
}

// loadLeaf decodes a leaf node out of p.
func loadLeaf(p *pageio.Page, page pageio.PageNum, recordSize uint64, maxCells int) *Leaf {
	buf := p.Bytes()
	l := newLeaf(page, readPageU64(buf[commonHeaderSize:commonHeaderSize+8]), recordSize, maxCells)
	numCells := int(readU64(buf[commonHeaderSize+8 : commonHeaderSize+16]))
	l.Cells = make([]LeafCell, numCells)

	off := commonHeaderSize + leafHeaderSize
	cellSize := int(keySize + recordSize)
	for i := 0; i < numCells; i++ {
		cell := buf[off : off+cellSize]
		key := readU64(cell[:keySize])
		payload := make([]byte, recordSize)
		copy(payload, cell[keySize:])
		l.Cells[i] = LeafCell{Key: key, Payload: payload}
		off += cellSize
	}
	return l
}

// store serializes l back to p.
func (l *Leaf) store(p *pageio.Page) {
	buf := p.Bytes()
	for i := range buf {
		buf[i] = 0
	}
	putPageNodeType(p, NodeLeaf)
	putPageU64(buf[commonHeaderSize:commonHeaderSize+8], l.ParentPage)
	putU64(buf[commonHeaderSize+8:commonHeaderSize+16], uint64(len(l.Cells)))

	off := commonHeaderSize + leafHeaderSize
	cellSize := int(keySize + l.recordSize)
	for _, c := range l.Cells {
		cell := buf[off : off+cellSize]
		putU64(cell[:keySize], c.Key)
		copy(cell[keySize:], c.Payload)
		off += cellSize
	}
}

// findIndex returns the lower-bound insertion/lookup index in [0, len(Cells)]
// per spec §4.3: the first index whose key is >= the search key.
func (l *Leaf) findIndex(key uint64) int {
	return sort.Search(len(l.Cells), func(i int) bool {
		return l.Cells[i].Key >= key
	})
}

// full reports whether l has no room for another cell.
func (l *Leaf) full() bool { return len(l.Cells) >= l.maxCells }

// insertAt splices a new cell at idx, shifting later cells right.
func (l *Leaf) insertAt(idx int, key uint64, payload []byte) {
	l.Cells = append(l.Cells, LeafCell{})
	copy(l.Cells[idx+1:], l.Cells[idx:])
	l.Cells[idx] = LeafCell{Key: key, Payload: payload}
}

// splitOff removes and returns the upper half of l's cells, called once l
// has overflowed to maxCells+1 entries; splitCount(maxCells) retains
// ceil(maxCells/2) in the left (original) leaf, per spec §4.3.
func (l *Leaf) splitOff() []LeafCell {
	n := splitCount(l.maxCells)
	upper := append([]LeafCell(nil), l.Cells[n:]...)
	l.Cells = l.Cells[:n]
	return upper
}
