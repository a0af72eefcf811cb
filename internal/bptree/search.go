// internal/bptree/search.go
package bptree

// findLeaf descends from root to the leaf that would contain key. At an
// internal node the first index i with key < keys[i] selects child i;
// ties (key >= keys[i]) always step right, so equality at a separator
// descends into the child to its right.
func findLeaf(root *node, key int32) *node {
	if root == nil {
		return nil
	}

	n := root
	for !n.isLeaf {
		i := 0
		for i < len(n.keys) && key >= n.keys[i] {
			i++
		}
		n = n.children[i]
	}
	return n
}

// Find returns the record stored under key, if any.
func (db *DB) Find(key int32) (*Record, bool) {
	leaf := findLeaf(db.root, key)
	if leaf == nil {
		return nil, false
	}
	for i, k := range leaf.keys {
		if k == key {
			return leaf.records[i], true
		}
	}
	return nil, false
}

// KeyRecord pairs a key with its record, returned by Range.
type KeyRecord struct {
	Key    int32
	Record *Record
}

// Range returns every (key, record) pair with lo <= key <= hi, in
// ascending key order. If lo > hi the result is empty.
func (db *DB) Range(lo, hi int32) []KeyRecord {
	if lo > hi {
		return nil
	}

	leaf := findLeaf(db.root, lo)
	if leaf == nil {
		return nil
	}

	i := 0
	for i < len(leaf.keys) && leaf.keys[i] < lo {
		i++
	}

	var out []KeyRecord
	for leaf != nil {
		for ; i < len(leaf.keys); i++ {
			if leaf.keys[i] > hi {
				return out
			}
			out = append(out, KeyRecord{Key: leaf.keys[i], Record: leaf.records[i]})
		}
		leaf = leaf.next
		i = 0
	}
	return out
}

// Iterate walks every live key in ascending order via the leaf chain,
// starting from the leftmost leaf, calling fn for each. It stops early
// if fn returns false. This is the traversal contract external
// collaborators (the CLI, the benchmarks) use instead of reaching into
// node internals.
func (db *DB) Iterate(fn func(key int32, rec *Record) bool) {
	if db.root == nil {
		return
	}

	n := db.root
	for !n.isLeaf {
		n = n.children[0]
	}

	for n != nil {
		for i, k := range n.keys {
			if !fn(k, n.records[i]) {
				return
			}
		}
		n = n.next
	}
}
