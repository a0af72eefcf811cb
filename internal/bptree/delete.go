// internal/bptree/delete.go
//
// Mirrors original_source/ytree.c's get_neighbor_index /
// remove_entry_from_node / adjust_root / coalesce_nodes /
// redistribute_nodes / delete_entry chain. The C original passes the
// "thing removed from n" as a single void* (a record pointer when n is a
// leaf, a child node pointer when n is internal); Go keeps that as two
// nilable fields on the same call rather than an interface{}, since which
// one is meaningful is already determined by n.isLeaf.
package bptree

import "fmt"

// Delete removes key and its record, if present. Deletion of an absent
// key is a silent no-op.
func (db *DB) Delete(key int32) {
	leaf := findLeaf(db.root, key)
	if leaf == nil {
		return
	}

	var rec *Record
	found := false
	for i, k := range leaf.keys {
		if k == key {
			rec = leaf.records[i]
			found = true
			break
		}
	}
	if !found {
		return
	}

	db.root = db.deleteEntry(leaf, key, rec, nil)

	if rec.Type == TypeBlob && db.releaseHook != nil {
		db.releaseHook(rec.Blob)
	}
}

// Purge empties the tree, invoking the release hook on every blob record.
func (db *DB) Purge() {
	if db.releaseHook != nil {
		db.Iterate(func(_ int32, rec *Record) bool {
			if rec.Type == TypeBlob {
				db.releaseHook(rec.Blob)
			}
			return true
		})
	}
	db.root = nil
}

func removeEntryFromNode(n *node, key int32, rec *Record, child *node) {
	ki := -1
	for i, k := range n.keys {
		if k == key {
			ki = i
			break
		}
	}
	if ki == -1 {
		panic(fmt.Sprintf("ytree: invariant violated: key %d not found in node %v during delete", key, n.keys))
	}
	n.keys = append(n.keys[:ki], n.keys[ki+1:]...)

	if n.isLeaf {
		ri := -1
		for i, r := range n.records {
			if r == rec {
				ri = i
				break
			}
		}
		if ri == -1 {
			panic(fmt.Sprintf("ytree: invariant violated: record for key %d not found in leaf %v during delete", key, n.keys))
		}
		n.records = append(n.records[:ri], n.records[ri+1:]...)
		return
	}

	ci := -1
	for i, c := range n.children {
		if c == child {
			ci = i
			break
		}
	}
	if ci == -1 {
		panic(fmt.Sprintf("ytree: invariant violated: child for key %d not found in node %v during delete", key, n.keys))
	}
	n.children = append(n.children[:ci], n.children[ci+1:]...)
}

// deleteEntry removes (key, rec-or-child) from n, then repairs the tree
// if n has fallen below minimum occupancy: coalescing it into a sibling
// or redistributing entries from one, recursing upward as needed. It
// returns the tree's (possibly new) root.
func (db *DB) deleteEntry(n *node, key int32, rec *Record, child *node) *node {
	removeEntryFromNode(n, key, rec, child)

	if n == db.root {
		return db.adjustRoot()
	}

	var minKeys int
	if n.isLeaf {
		minKeys = cut(db.order - 1)
	} else {
		minKeys = cut(db.order) - 1
	}
	if len(n.keys) >= minKeys {
		return db.root
	}

	neighborIndex := getNeighborIndex(n)
	kPrimeIndex := neighborIndex
	if neighborIndex == -1 {
		kPrimeIndex = 0
	}
	kPrime := n.parent.keys[kPrimeIndex]

	var neighbor *node
	if neighborIndex == -1 {
		neighbor = n.parent.children[1]
	} else {
		neighbor = n.parent.children[neighborIndex]
	}

	capacity := db.order - 1
	if n.isLeaf {
		capacity = db.order
	}

	if len(neighbor.keys)+len(n.keys) < capacity {
		return db.coalesceNodes(n, neighbor, neighborIndex, kPrime)
	}
	return db.redistributeNodes(n, neighbor, neighborIndex, kPrimeIndex, kPrime)
}

// adjustRoot collapses an emptied root: an internal root with no keys
// hands the tree over to its sole remaining child; an emptied leaf root
// leaves the tree empty.
func (db *DB) adjustRoot() *node {
	if len(db.root.keys) > 0 {
		return db.root
	}
	if !db.root.isLeaf {
		newRoot := db.root.children[0]
		newRoot.parent = nil
		return newRoot
	}
	return nil
}

// getNeighborIndex returns the index, in n's parent's children, of the
// sibling immediately to n's left, or -1 if n is its parent's leftmost
// child (in which case the caller's "neighbor" is n's right sibling
// instead).
func getNeighborIndex(n *node) int {
	p := n.parent
	for i, c := range p.children {
		if c == n {
			return i - 1
		}
	}
	panic(fmt.Sprintf("ytree: invariant violated: node %v not found among its parent's children", n.keys))
}

// coalesceNodes merges n into neighbor, freeing n. If n was its parent's
// leftmost child, n and neighbor are swapped first so the surviving node
// is always the spatially-left one.
func (db *DB) coalesceNodes(n, neighbor *node, neighborIndex int, kPrime int32) *node {
	if neighborIndex == -1 {
		n, neighbor = neighbor, n
	}

	if n.isLeaf {
		neighbor.keys = append(neighbor.keys, n.keys...)
		neighbor.records = append(neighbor.records, n.records...)
		neighbor.next = n.next
	} else {
		neighbor.keys = append(neighbor.keys, kPrime)
		neighbor.keys = append(neighbor.keys, n.keys...)
		neighbor.children = append(neighbor.children, n.children...)
		for _, c := range neighbor.children {
			c.parent = neighbor
		}
	}

	parent := n.parent
	return db.deleteEntry(parent, kPrime, nil, n)
}

// redistributeNodes borrows one entry from neighbor to bring n back up
// to minimum occupancy, rotating the separator key in their shared
// parent accordingly.
func (db *DB) redistributeNodes(n, neighbor *node, neighborIndex, kPrimeIndex int, kPrime int32) *node {
	if neighborIndex != -1 {
		// neighbor is to n's left: move its last entry to n's front.
		if n.isLeaf {
			lastRecord := neighbor.records[len(neighbor.records)-1]
			lastKey := neighbor.keys[len(neighbor.keys)-1]
			neighbor.records = neighbor.records[:len(neighbor.records)-1]
			neighbor.keys = neighbor.keys[:len(neighbor.keys)-1]

			n.records = append([]*Record{lastRecord}, n.records...)
			n.keys = append([]int32{lastKey}, n.keys...)
			n.parent.keys[kPrimeIndex] = lastKey
		} else {
			lastChild := neighbor.children[len(neighbor.children)-1]
			lastKey := neighbor.keys[len(neighbor.keys)-1]
			neighbor.children = neighbor.children[:len(neighbor.children)-1]
			neighbor.keys = neighbor.keys[:len(neighbor.keys)-1]

			n.children = append([]*node{lastChild}, n.children...)
			n.keys = append([]int32{kPrime}, n.keys...)
			lastChild.parent = n
			n.parent.keys[kPrimeIndex] = lastKey
		}
	} else {
		// neighbor is to n's right: move its first entry to n's back.
		if n.isLeaf {
			n.keys = append(n.keys, neighbor.keys[0])
			n.records = append(n.records, neighbor.records[0])
			n.parent.keys[kPrimeIndex] = neighbor.keys[1]
			neighbor.keys = neighbor.keys[1:]
			neighbor.records = neighbor.records[1:]
		} else {
			n.keys = append(n.keys, kPrime)
			firstChild := neighbor.children[0]
			n.children = append(n.children, firstChild)
			firstChild.parent = n
			n.parent.keys[kPrimeIndex] = neighbor.keys[0]
			neighbor.keys = neighbor.keys[1:]
			neighbor.children = neighbor.children[1:]
		}
	}
	return db.root
}
