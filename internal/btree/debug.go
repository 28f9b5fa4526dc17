package btree

import (
	"fmt"
	"io"

	"pagedb/internal/pageio"
)

// Dump prints the page/cell structure of the tree starting at its root, for
// debugging a split gone wrong.
func (t *Tree) Dump(w io.Writer) error {
	return t.dumpNode(w, t.Root, 0)
}

func (t *Tree) dumpNode(w io.Writer, page pageio.PageNum, depth int) error {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	leaf, err := t.isLeaf(page)
	if err != nil {
		return err
	}
	if leaf {
		l, err := t.loadLeaf(page)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%sleaf(page=%d parent=%d cells=%d)\n", indent, l.Page, l.ParentPage, len(l.Cells))
		for _, c := range l.Cells {
			fmt.Fprintf(w, "%s  key=%d\n", indent, c.Key)
		}
		return nil
	}

	n, err := t.loadInternal(page)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%sinternal(page=%d parent=%d keys=%d right=%d)\n", indent, n.Page, n.ParentPage, len(n.Cells), n.RightChild)
	for _, c := range n.Cells {
		fmt.Fprintf(w, "%s  key=%d ->\n", indent, c.Key)
		if err := t.dumpNode(w, c.Child, depth+2); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%s  right ->\n", indent)
	return t.dumpNode(w, n.RightChild, depth+2)
}
