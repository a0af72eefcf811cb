// internal/bptree/debug.go
//
// PrintTree and PrintLeaves are straight ports of the source's
// ytree_print_tree (level-order queue walk, one line per rank) and
// ytree_print_leaves (leaf-chain walk, "|" between leaves), kept behind
// the DEBUG build in the source but exposed here unconditionally as the
// CLI's "t" and "l" commands since Go has no compile-time DEBUG switch
// this project otherwise uses.
package bptree

import (
	"fmt"
	"io"
)

// PrintTree writes the tree in level order, one rank per line, keys
// space-separated, "| " between sibling nodes.
func (db *DB) PrintTree(w io.Writer) {
	if db.root == nil {
		fmt.Fprintln(w, "Empty tree")
		return
	}

	type leveled struct {
		n     *node
		depth int
	}
	queue := []leveled{{db.root, 0}}
	depth := -1

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth != depth {
			if depth != -1 {
				fmt.Fprintln(w)
			}
			depth = cur.depth
		}

		for _, k := range cur.n.keys {
			fmt.Fprintf(w, "%d ", k)
		}
		if !cur.n.isLeaf {
			for _, c := range cur.n.children {
				queue = append(queue, leveled{c, cur.depth + 1})
			}
		}
		fmt.Fprint(w, "| ")
	}
	fmt.Fprintln(w)
}

// PrintLeaves writes the bottom row of keys, leaf by leaf, separated by
// " | ".
func (db *DB) PrintLeaves(w io.Writer) {
	if db.root == nil {
		fmt.Fprintln(w, "Empty tree.")
		return
	}

	n := db.root
	for !n.isLeaf {
		n = n.children[0]
	}

	for n != nil {
		for _, k := range n.keys {
			fmt.Fprintf(w, "%d ", k)
		}
		if n.next != nil {
			fmt.Fprint(w, " | ")
		}
		n = n.next
	}
	fmt.Fprintln(w)
}

// PrintValue writes rec's value in the same single-line form as the
// source's ytree_print_value, switching on its type tag.
func (db *DB) PrintValue(w io.Writer, rec *Record) {
	switch rec.Type {
	case TypeByte:
		fmt.Fprintf(w, "%c\n", rec.Byte)
	case TypeInt:
		fmt.Fprintf(w, "%d\n", rec.Int)
	case TypeFloat:
		fmt.Fprintf(w, "%f\n", rec.Float)
	case TypeBlob:
		fmt.Fprintf(w, "%d bytes\n", len(rec.Blob))
	}
}
