// internal/bptree/db.go
//
// DB is the handle external collaborators hold: it owns the tree root
// and the order/release-hook configuration, matching the source's
// db_t (order, root, record_type, release callback) bundled behind
// ytree_db_init/ytree_db_close, adapted to Go's constructor-returns-error
// idiom the way the teacher's NewDatabase(path) does for its own handle.
package bptree

import (
	"errors"
	"fmt"
)

const (
	minOrder = 3
	maxOrder = 100

	// defaultOrder matches the source's DEFAULT_ORDER.
	defaultOrder = 4
)

// ErrInvalidOrder is returned when a requested tree order falls outside
// [minOrder, maxOrder].
var ErrInvalidOrder = errors.New("ytree: order must be in [3, 100]")

// Options configures a new DB. The zero value selects the default
// order and no release hook.
type Options struct {
	// Order is the maximum number of children an internal node may
	// have (and one more than the maximum number of keys a leaf may
	// hold). Zero selects the default order.
	Order int

	// ReleaseHook, if set, is invoked exactly once on a blob record's
	// payload when that record is deleted or purged.
	ReleaseHook ReleaseHook
}

// DB is an ordered key -> Record index backed by an in-memory B+ tree.
type DB struct {
	root        *node
	order       int
	releaseHook ReleaseHook
}

// Open constructs an empty DB. It returns ErrInvalidOrder if
// opts.Order is nonzero and outside [3, 100].
func Open(opts Options) (*DB, error) {
	order := opts.Order
	if order == 0 {
		order = defaultOrder
	}
	if order < minOrder || order > maxOrder {
		return nil, fmt.Errorf("ytree: order %d: %w", order, ErrInvalidOrder)
	}
	return &DB{order: order, releaseHook: opts.ReleaseHook}, nil
}

// Close purges the tree (invoking the release hook on any remaining
// blob records) and releases db's resources, matching the source's
// ytree_db_close semantics of purge-then-free.
func (db *DB) Close() error {
	db.Purge()
	return nil
}

// SetReleaseHook installs (or clears, with nil) the hook invoked on a
// blob record's payload at delete or purge.
func (db *DB) SetReleaseHook(fn ReleaseHook) {
	db.releaseHook = fn
}

// SetOrder changes db's order. It is a no-op returning ErrInvalidOrder
// if n is outside [3, 100], and a no-op returning nil if the tree is
// not empty — matching the source's ytree_order, which only takes
// effect before the first insert.
func (db *DB) SetOrder(n int) error {
	if n < minOrder || n > maxOrder {
		return fmt.Errorf("ytree: order %d: %w", n, ErrInvalidOrder)
	}
	if db.root != nil {
		return nil
	}
	db.order = n
	return nil
}

// Order returns db's current order.
func (db *DB) Order() int {
	return db.order
}

// Empty reports whether the tree holds no keys.
func (db *DB) Empty() bool {
	return db.root == nil
}

// Count returns the number of keys in the tree.
func (db *DB) Count() int {
	n := 0
	db.Iterate(func(int32, *Record) bool {
		n++
		return true
	})
	return n
}

// Height returns the number of edges on the path from the root to a
// leaf (0 for an empty tree and for a single-leaf-root tree), matching
// the source's ytree_height: it counts descents, not levels.
func (db *DB) Height() int {
	if db.root == nil {
		return 0
	}
	h := 0
	n := db.root
	for !n.isLeaf {
		h++
		n = n.children[0]
	}
	return h
}
