package btree

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"pagedb/internal/dblog"
	"pagedb/internal/pageio"
)

// ErrDuplicateKey is returned by Insert when the primary key already exists.
var ErrDuplicateKey = errors.New("btree: duplicate key")

// ErrNotFound is returned by Find when no cell carries the requested key.
var ErrNotFound = errors.New("btree: key not found")

// rootPage is where the initial root leaf lives on a freshly created file;
// page 0 is reserved (never a node), per spec §6.
const rootPage = pageio.PageNum(1)

// Tree is a B+tree keyed by uint64 primary keys, backed by a Pager. Root
// changes (leaf/internal splits at the top) are reflected in the exported
// Root field; callers that persist a root pointer elsewhere (the table's
// Metadata) must re-read Root after any Insert that might have split.
type Tree struct {
	pager    *pageio.Pager
	Root     pageio.PageNum
	recSize  uint64
	maxLeaf  int
	log      logr.Logger
}

// Open binds a Tree to pager. If fresh, page 1 is initialised as an empty
// leaf root with a null parent, per spec §4.1.
func Open(pager *pageio.Pager, recordSize uint64, fresh bool, log logr.Logger) (*Tree, error) {
	if log.GetSink() == nil {
		log = dblog.Discard
	}
	t := &Tree{
		pager:   pager,
		Root:    rootPage,
		recSize: recordSize,
		maxLeaf: MaxLeafCells(recordSize),
		log:     dblog.Named(log, "btree"),
	}
	if fresh {
		p, err := pager.GetPage(rootPage)
		if err != nil {
			return nil, fmt.Errorf("btree: init root: %w", err)
		}
		newLeaf(rootPage, pageio.Null, recordSize, t.maxLeaf).store(p)
	}
	return t, nil
}

// OpenAt binds a Tree whose root is not page 1 (a previously-split tree
// reopened from persisted Metadata.Root).
func OpenAt(pager *pageio.Pager, root pageio.PageNum, recordSize uint64, log logr.Logger) *Tree {
	if log.GetSink() == nil {
		log = dblog.Discard
	}
	return &Tree{
		pager:   pager,
		Root:    root,
		recSize: recordSize,
		maxLeaf: MaxLeafCells(recordSize),
		log:     dblog.Named(log, "btree"),
	}
}

func (t *Tree) loadLeaf(page pageio.PageNum) (*Leaf, error) {
	p, err := t.pager.GetPage(page)
	if err != nil {
		return nil, err
	}
	if pageNodeType(p) != NodeLeaf {
		return nil, fmt.Errorf("btree: page %d is not a leaf", page)
	}
	return loadLeaf(p, page, t.recSize, t.maxLeaf), nil
}

func (t *Tree) loadInternal(page pageio.PageNum) (*Internal, error) {
	p, err := t.pager.GetPage(page)
	if err != nil {
		return nil, err
	}
	if pageNodeType(p) != NodeInternal {
		return nil, fmt.Errorf("btree: page %d is not internal", page)
	}
	return loadInternal(p, page), nil
}

func (t *Tree) isLeaf(page pageio.PageNum) (bool, error) {
	p, err := t.pager.GetPage(page)
	if err != nil {
		return false, err
	}
	return pageNodeType(p) == NodeLeaf, nil
}

func (t *Tree) storeLeaf(l *Leaf) error {
	p, err := t.pager.GetPage(l.Page)
	if err != nil {
		return err
	}
	l.store(p)
	return nil
}

func (t *Tree) storeInternal(n *Internal) error {
	p, err := t.pager.GetPage(n.Page)
	if err != nil {
		return err
	}
	n.store(p)
	return nil
}

// reparent rewrites child's parent pointer to newParent, whether child is a
// leaf or internal page.
func (t *Tree) reparent(child, newParent pageio.PageNum) error {
	leaf, err := t.isLeaf(child)
	if err != nil {
		return err
	}
	if leaf {
		l, err := t.loadLeaf(child)
		if err != nil {
			return err
		}
		l.ParentPage = newParent
		return t.storeLeaf(l)
	}
	n, err := t.loadInternal(child)
	if err != nil {
		return err
	}
	n.ParentPage = newParent
	return t.storeInternal(n)
}

// Cursor is a (page, cell) position into a leaf, usable for lookup or as
// the insertion point for a new cell.
type Cursor struct {
	Page pageio.PageNum
	Cell int
}

// FindCursor descends from the root to the leaf that would contain key,
// per spec §4.5.
func (t *Tree) FindCursor(key uint64) (Cursor, error) {
	page := t.Root
	for {
		leaf, err := t.isLeaf(page)
		if err != nil {
			return Cursor{}, err
		}
		if leaf {
			l, err := t.loadLeaf(page)
			if err != nil {
				return Cursor{}, err
			}
			return Cursor{Page: page, Cell: l.findIndex(key)}, nil
		}
		n, err := t.loadInternal(page)
		if err != nil {
			return Cursor{}, err
		}
		page = n.find(key)
	}
}

// leftmostLeaf follows cell[0].Child through internal nodes until a leaf
// is reached, per spec §4.5.
func (t *Tree) leftmostLeaf(page pageio.PageNum) (pageio.PageNum, error) {
	for {
		leaf, err := t.isLeaf(page)
		if err != nil {
			return 0, err
		}
		if leaf {
			return page, nil
		}
		n, err := t.loadInternal(page)
		if err != nil {
			return 0, err
		}
		if len(n.Cells) == 0 {
			return n.RightChild, nil
		}
		page = n.Cells[0].Child
	}
}

// Find returns the record payload stored under key, per spec §4.7.
func (t *Tree) Find(key uint64) ([]byte, error) {
	cur, err := t.FindCursor(key)
	if err != nil {
		return nil, err
	}
	l, err := t.loadLeaf(cur.Page)
	if err != nil {
		return nil, err
	}
	if cur.Cell < len(l.Cells) && l.Cells[cur.Cell].Key == key {
		return l.Cells[cur.Cell].Payload, nil
	}
	return nil, ErrNotFound
}

// Advance moves cur to the next key in ascending order. ok is false once
// the end of the tree is reached.
func (t *Tree) Advance(cur Cursor) (next Cursor, ok bool, err error) {
	l, err := t.loadLeaf(cur.Page)
	if err != nil {
		return Cursor{}, false, err
	}
	if cur.Cell+1 < len(l.Cells) {
		return Cursor{Page: cur.Page, Cell: cur.Cell + 1}, true, nil
	}
	if l.Page == t.Root {
		return Cursor{}, false, nil
	}
	if len(l.Cells) == 0 {
		return Cursor{}, false, nil
	}
	lastKey := l.Cells[0].Key
	parentPage := l.ParentPage
	for {
		parent, err := t.loadInternal(parentPage)
		if err != nil {
			return Cursor{}, false, err
		}
		i := parent.findIndex(lastKey)
		if i < len(parent.Cells) {
			var nextSubtree pageio.PageNum
			if i+1 < len(parent.Cells) {
				nextSubtree = parent.Cells[i+1].Child
			} else {
				nextSubtree = parent.RightChild
			}
			leafPage, err := t.leftmostLeaf(nextSubtree)
			if err != nil {
				return Cursor{}, false, err
			}
			return Cursor{Page: leafPage, Cell: 0}, true, nil
		}
		if parent.Page == t.Root {
			return Cursor{}, false, nil
		}
		if len(parent.Cells) == 0 {
			return Cursor{}, false, nil
		}
		lastKey = parent.Cells[0].Key
		parentPage = parent.ParentPage
	}
}

// First returns a cursor at the very first cell of the tree (the leftmost
// leaf's cell 0), or ok=false if the tree is empty.
func (t *Tree) First() (Cursor, bool, error) {
	page, err := t.leftmostLeaf(t.Root)
	if err != nil {
		return Cursor{}, false, err
	}
	l, err := t.loadLeaf(page)
	if err != nil {
		return Cursor{}, false, err
	}
	if len(l.Cells) == 0 {
		return Cursor{}, false, nil
	}
	return Cursor{Page: page, Cell: 0}, true, nil
}

// Cell returns the (key, payload) at cur.
func (t *Tree) Cell(cur Cursor) (key uint64, payload []byte, err error) {
	l, err := t.loadLeaf(cur.Page)
	if err != nil {
		return 0, nil, err
	}
	if cur.Cell >= len(l.Cells) {
		return 0, nil, fmt.Errorf("btree: cursor cell %d out of range (%d cells)", cur.Cell, len(l.Cells))
	}
	c := l.Cells[cur.Cell]
	return c.Key, c.Payload, nil
}

// UpdatePayload overwrites the record at cur in place. Used by UPDATE,
// which never changes a cell's key.
func (t *Tree) UpdatePayload(cur Cursor, payload []byte) error {
	l, err := t.loadLeaf(cur.Page)
	if err != nil {
		return err
	}
	if cur.Cell >= len(l.Cells) {
		return fmt.Errorf("btree: cursor cell %d out of range", cur.Cell)
	}
	l.Cells[cur.Cell].Payload = payload
	return t.storeLeaf(l)
}

// Insert places (key, payload) into the tree, splitting leaves and
// internal nodes up to the root as needed, per spec §4.6.
func (t *Tree) Insert(key uint64, payload []byte) error {
	cur, err := t.FindCursor(key)
	if err != nil {
		return err
	}
	leaf, err := t.loadLeaf(cur.Page)
	if err != nil {
		return err
	}
	if cur.Cell < len(leaf.Cells) && leaf.Cells[cur.Cell].Key == key {
		return ErrDuplicateKey
	}

	wasFull := leaf.full()
	leaf.insertAt(cur.Cell, key, payload)
	if !wasFull {
		return t.storeLeaf(leaf)
	}

	t.log.V(dblog.LevelOp).Info("split_leaf", "page", leaf.Page)
	return t.splitLeafAndInsert(leaf)
}

// splitLeafAndInsert is called once leaf has overflowed by exactly one
// cell. It allocates a sibling, moves the upper half of leaf's cells into
// it, and inserts the resulting (splitKey, sibling) pair into leaf's
// parent — growing the tree by one level if leaf was the root.
func (t *Tree) splitLeafAndInsert(leaf *Leaf) error {
	upper := leaf.splitOff()
	if err := t.storeLeaf(leaf); err != nil {
		return err
	}

	siblingPage, err := t.pager.AllocatePage()
	if err != nil {
		return err
	}
	sibling := newLeaf(siblingPage, leaf.ParentPage, t.recSize, t.maxLeaf)
	sibling.Cells = upper
	splitKey := sibling.Cells[0].Key
	if err := t.storeLeaf(sibling); err != nil {
		return err
	}

	if leaf.Page == t.Root {
		return t.growRoot(splitKey, leaf.Page, siblingPage)
	}
	return t.insertIntoInternal(leaf.ParentPage, splitKey, siblingPage)
}

// growRoot allocates a fresh internal root over the two halves of a split
// root node (leaf or internal), per spec §4.6's split-root-leaf case and
// the internal-split root-growth case.
func (t *Tree) growRoot(splitKey uint64, left, right pageio.PageNum) error {
	newRootPage, err := t.pager.AllocatePage()
	if err != nil {
		return err
	}
	root := newInternal(newRootPage, pageio.Null)
	root.Cells = []InternalCell{{Key: splitKey, Child: left}}
	root.RightChild = right
	if err := t.storeInternal(root); err != nil {
		return err
	}
	if err := t.reparent(left, newRootPage); err != nil {
		return err
	}
	if err := t.reparent(right, newRootPage); err != nil {
		return err
	}
	t.Root = newRootPage
	t.log.V(dblog.LevelOp).Info("grow_root", "new_root", newRootPage)
	return nil
}

// insertIntoInternal inserts (key, child) into the internal node at page,
// splitting it (and recursively its ancestors, up to the root) if it is
// already full. This implements the full recursive internal-node split
// that stops at the first non-root ancestor in the original design (see
// DESIGN.md); here it is generalised to walk all the way to the root.
func (t *Tree) insertIntoInternal(page pageio.PageNum, key uint64, child pageio.PageNum) error {
	n, err := t.loadInternal(page)
	if err != nil {
		return err
	}
	if err := t.reparent(child, page); err != nil {
		return err
	}
	wasFull := n.full()
	n.insert(key, child)
	if !wasFull {
		return t.storeInternal(n)
	}

	t.log.V(dblog.LevelOp).Info("split_internal", "page", n.Page)
	return t.splitInternalAndInsert(n)
}

// splitInternalAndInsert splits a full internal node per spec §4.6's
// "Internal split" recipe, then propagates the promoted (splitKey, right)
// pair into the grandparent — recursing if that, too, is full, and growing
// the tree by one level if n was the root.
func (t *Tree) splitInternalAndInsert(n *Internal) error {
	sc := splitCount(MaxInternalCells)
	// n.Cells currently holds MaxInternalCells+1 entries (the overflow
	// insert already happened in insertIntoInternal).
	upperCells := append([]InternalCell(nil), n.Cells[sc:]...)
	promoted := n.Cells[sc-1]
	n.Cells = n.Cells[:sc-1]
	oldRightChild := n.RightChild
	n.RightChild = promoted.Child

	siblingPage, err := t.pager.AllocatePage()
	if err != nil {
		return err
	}
	sibling := newInternal(siblingPage, n.ParentPage)
	sibling.Cells = upperCells
	sibling.RightChild = oldRightChild

	if err := t.storeInternal(n); err != nil {
		return err
	}
	if err := t.storeInternal(sibling); err != nil {
		return err
	}
	for _, c := range sibling.Cells {
		if err := t.reparent(c.Child, siblingPage); err != nil {
			return err
		}
	}
	if err := t.reparent(sibling.RightChild, siblingPage); err != nil {
		return err
	}

	if n.Page == t.Root {
		return t.growRoot(promoted.Key, n.Page, siblingPage)
	}
	return t.insertIntoInternal(n.ParentPage, promoted.Key, siblingPage)
}
