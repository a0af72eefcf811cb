package bptree

import (
	"math/rand"
	"testing"
)

func openT(t *testing.T, order int) *DB {
	t.Helper()
	db, err := Open(Options{Order: order})
	if err != nil {
		t.Fatalf("Open(order=%d): %v", order, err)
	}
	return db
}

func TestOpenRejectsInvalidOrder(t *testing.T) {
	for _, order := range []int{1, 2, 101, 1000} {
		if _, err := Open(Options{Order: order}); err == nil {
			t.Fatalf("Open(order=%d): expected ErrInvalidOrder, got nil", order)
		}
	}
}

func TestOpenDefaultOrder(t *testing.T) {
	db, err := Open(Options{})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if db.Order() != defaultOrder {
		t.Fatalf("default order = %d, want %d", db.Order(), defaultOrder)
	}
}

// (a) insert into empty tree creates a one-key leaf root.
func TestInsertIntoEmptyTree(t *testing.T) {
	db := openT(t, 4)
	db.Insert(10, NewIntRecord(100))

	if db.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", db.Count())
	}
	if db.Height() != 0 {
		t.Fatalf("Height() = %d, want 0 (a single-leaf root has no descents)", db.Height())
	}
	rec, ok := db.Find(10)
	if !ok || rec.Int != 100 {
		t.Fatalf("Find(10) = (%v, %v), want (100, true)", rec, ok)
	}
}

// (b) inserts that force leaf and internal splits.
func TestInsertForcesSplits(t *testing.T) {
	db := openT(t, 4)
	for i := int32(0); i < 50; i++ {
		db.Insert(i, NewIntRecord(i*10))
	}
	if db.Count() != 50 {
		t.Fatalf("Count() = %d, want 50", db.Count())
	}
	if db.Height() < 1 {
		t.Fatalf("Height() = %d, want >= 1 after 50 inserts at order 4", db.Height())
	}
	for i := int32(0); i < 50; i++ {
		rec, ok := db.Find(i)
		if !ok || rec.Int != i*10 {
			t.Fatalf("Find(%d) = (%v, %v), want (%d, true)", i, rec, ok, i*10)
		}
	}
	checkInvariants(t, db)
}

// (c) duplicate insert is a silent no-op.
func TestInsertDuplicateIsNoOp(t *testing.T) {
	db := openT(t, 4)
	db.Insert(1, NewIntRecord(1))
	db.Insert(1, NewIntRecord(999))

	rec, ok := db.Find(1)
	if !ok || rec.Int != 1 {
		t.Fatalf("Find(1) = (%v, %v), want original record (1, true)", rec, ok)
	}
	if db.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", db.Count())
	}
}

// (d) delete of an absent key is a silent no-op.
func TestDeleteAbsentIsNoOp(t *testing.T) {
	db := openT(t, 4)
	db.Insert(1, NewIntRecord(1))
	db.Delete(999)

	if db.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", db.Count())
	}
	if _, ok := db.Find(1); !ok {
		t.Fatalf("Find(1): expected key to survive unrelated delete")
	}
}

// (e) deletes that force coalesce and redistribute.
func TestDeleteForcesCoalesceAndRedistribute(t *testing.T) {
	db := openT(t, 4)
	for i := int32(0); i < 50; i++ {
		db.Insert(i, NewIntRecord(i))
	}
	checkInvariants(t, db)

	for i := int32(0); i < 50; i += 2 {
		db.Delete(i)
		checkInvariants(t, db)
	}
	if db.Count() != 25 {
		t.Fatalf("Count() = %d, want 25", db.Count())
	}
	for i := int32(1); i < 50; i += 2 {
		if _, ok := db.Find(i); !ok {
			t.Fatalf("Find(%d): expected surviving odd key", i)
		}
	}
	for i := int32(0); i < 50; i += 2 {
		if _, ok := db.Find(i); ok {
			t.Fatalf("Find(%d): expected deleted even key to be gone", i)
		}
	}
}

// (f) range scan returns an ascending, bounded slice.
func TestRange(t *testing.T) {
	db := openT(t, 4)
	for i := int32(0); i < 20; i++ {
		db.Insert(i, NewIntRecord(i))
	}

	got := db.Range(5, 10)
	if len(got) != 6 {
		t.Fatalf("Range(5, 10) returned %d entries, want 6", len(got))
	}
	for i, kr := range got {
		want := int32(5 + i)
		if kr.Key != want {
			t.Fatalf("Range(5, 10)[%d].Key = %d, want %d", i, kr.Key, want)
		}
	}

	if got := db.Range(10, 5); got != nil {
		t.Fatalf("Range(10, 5) = %v, want nil for lo > hi", got)
	}
}

func TestIterateStopsEarly(t *testing.T) {
	db := openT(t, 4)
	for i := int32(0); i < 10; i++ {
		db.Insert(i, NewIntRecord(i))
	}

	var seen []int32
	db.Iterate(func(key int32, _ *Record) bool {
		seen = append(seen, key)
		return key < 3
	})
	if len(seen) != 4 {
		t.Fatalf("Iterate stopped after %d keys, want 4 (0..3, the last failing the predicate)", len(seen))
	}
}

func TestPurgeInvokesReleaseHookOnBlobsOnly(t *testing.T) {
	var released [][]byte
	db, err := Open(Options{Order: 4, ReleaseHook: func(b []byte) {
		released = append(released, b)
	}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	db.Insert(1, NewIntRecord(1))
	db.Insert(2, NewBlobRecord([]byte("a")))
	db.Insert(3, NewBlobRecord([]byte("b")))

	db.Purge()

	if len(released) != 2 {
		t.Fatalf("release hook invoked %d times, want 2 (blobs only)", len(released))
	}
	if !db.Empty() {
		t.Fatalf("Purge: tree not empty afterward")
	}
}

func TestCloseDoesPurgeThenFree(t *testing.T) {
	var released int
	db, err := Open(Options{Order: 4, ReleaseHook: func([]byte) {
		released++
	}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	db.Insert(1, NewBlobRecord([]byte("a")))
	db.Insert(2, NewIntRecord(2))

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if released != 1 {
		t.Fatalf("release hook invoked %d times on Close, want 1", released)
	}
	if !db.Empty() {
		t.Fatalf("Close: tree not empty afterward")
	}
}

func TestDeleteInvokesReleaseHookForBlob(t *testing.T) {
	var released []byte
	db, err := Open(Options{Order: 4, ReleaseHook: func(b []byte) {
		released = b
	}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	db.Insert(1, NewBlobRecord([]byte("payload")))
	db.Delete(1)

	if string(released) != "payload" {
		t.Fatalf("release hook received %q, want %q", released, "payload")
	}
}

func TestRoundTripInsertDeleteAll(t *testing.T) {
	for _, order := range []int{3, 4, 5, 7, 16, 100} {
		db := openT(t, order)
		keys := rand.Perm(200)
		for _, k := range keys {
			db.Insert(int32(k), NewIntRecord(int32(k)))
		}
		checkInvariants(t, db)

		del := rand.Perm(200)
		for _, k := range del {
			db.Delete(int32(k))
		}
		if !db.Empty() {
			t.Fatalf("order %d: tree not empty after deleting every key", order)
		}
		if db.Count() != 0 {
			t.Fatalf("order %d: Count() = %d, want 0", order, db.Count())
		}
	}
}

func TestPropertyRandomizedOrdersSweep(t *testing.T) {
	for _, order := range []int{3, 4, 5, 7, 16, 100} {
		db := openT(t, order)
		present := map[int32]bool{}

		for step := 0; step < 500; step++ {
			key := int32(rand.Intn(100))
			if rand.Intn(3) == 0 && present[key] {
				db.Delete(key)
				delete(present, key)
			} else {
				db.Insert(key, NewIntRecord(key))
				present[key] = true
			}
			checkInvariants(t, db)
		}

		for key := int32(0); key < 100; key++ {
			_, ok := db.Find(key)
			if ok != present[key] {
				t.Fatalf("order %d: Find(%d) = %v, want %v", order, key, ok, present[key])
			}
		}
	}
}

func TestBoundaryCases(t *testing.T) {
	db := openT(t, 4)
	if !db.Empty() {
		t.Fatalf("new DB is not Empty()")
	}
	if db.Height() != 0 {
		t.Fatalf("Height() on empty tree = %d, want 0", db.Height())
	}
	db.Delete(1)

	db.Insert(1, NewIntRecord(1))
	if db.Count() != 1 || db.Height() != 0 {
		t.Fatalf("single-key tree: Count()=%d Height()=%d, want 1, 0", db.Count(), db.Height())
	}
	db.Delete(1)
	if !db.Empty() {
		t.Fatalf("deleting the only key should empty the tree")
	}

	db.Insert(1, NewIntRecord(1))
	db.Insert(2, NewIntRecord(2))
	if db.Count() != 2 {
		t.Fatalf("two-key tree: Count() = %d, want 2", db.Count())
	}
	db.Delete(1)
	db.Delete(2)
	if !db.Empty() {
		t.Fatalf("deleting both keys should empty the tree")
	}
}

func TestSetOrderOnlyAppliesBeforeFirstInsert(t *testing.T) {
	db := openT(t, 4)
	if err := db.SetOrder(7); err != nil {
		t.Fatalf("SetOrder(7) on empty tree: %v", err)
	}
	if db.Order() != 7 {
		t.Fatalf("Order() = %d, want 7", db.Order())
	}

	db.Insert(1, NewIntRecord(1))
	if err := db.SetOrder(10); err != nil {
		t.Fatalf("SetOrder(10) on non-empty tree returned error: %v", err)
	}
	if db.Order() != 7 {
		t.Fatalf("Order() = %d after SetOrder on non-empty tree, want unchanged 7", db.Order())
	}

	if err := db.SetOrder(2); err == nil {
		t.Fatalf("SetOrder(2): expected ErrInvalidOrder, got nil")
	}
}

// checkInvariants walks db's tree checking the structural invariants
// spec.md lists: equal leaf depth, minimum occupancy, ascending keys,
// separator correctness, leaf-chain completeness, and parent-pointer
// correctness.
func checkInvariants(t *testing.T, db *DB) {
	t.Helper()
	if db.root == nil {
		return
	}

	leafDepths := map[int]bool{}
	var walk func(n *node, depth int, lo, hi *int32)
	walk = func(n *node, depth int, lo, hi *int32) {
		for i := 1; i < len(n.keys); i++ {
			if n.keys[i-1] >= n.keys[i] {
				t.Fatalf("keys not strictly ascending in node at depth %d: %v", depth, n.keys)
			}
		}
		if lo != nil && len(n.keys) > 0 && n.keys[0] < *lo {
			t.Fatalf("node key %d below lower bound %d", n.keys[0], *lo)
		}
		if hi != nil && len(n.keys) > 0 && n.keys[len(n.keys)-1] >= *hi {
			t.Fatalf("node key %d not less than upper bound %d", n.keys[len(n.keys)-1], *hi)
		}

		if n != db.root {
			var minKeys int
			if n.isLeaf {
				minKeys = cut(db.order - 1)
			} else {
				minKeys = cut(db.order) - 1
			}
			if len(n.keys) < minKeys {
				t.Fatalf("node below minimum occupancy: has %d keys, want >= %d (order %d, isLeaf=%v)",
					len(n.keys), minKeys, db.order, n.isLeaf)
			}
		}

		if n.isLeaf {
			leafDepths[depth] = true
			if len(n.records) != len(n.keys) {
				t.Fatalf("leaf has %d keys but %d records", len(n.keys), len(n.records))
			}
			return
		}

		if len(n.children) != len(n.keys)+1 {
			t.Fatalf("internal node has %d keys but %d children, want %d", len(n.keys), len(n.children), len(n.keys)+1)
		}
		for i, c := range n.children {
			if c.parent != n {
				t.Fatalf("child %d's parent pointer does not reference its actual parent", i)
			}
			var childLo, childHi *int32
			if i > 0 {
				childLo = &n.keys[i-1]
			} else {
				childLo = lo
			}
			if i < len(n.keys) {
				childHi = &n.keys[i]
			} else {
				childHi = hi
			}
			walk(c, depth+1, childLo, childHi)
		}
	}
	walk(db.root, 0, nil, nil)

	if len(leafDepths) > 1 {
		t.Fatalf("leaves at unequal depths: %v", leafDepths)
	}

	// leaf-chain completeness: walking next from the leftmost leaf
	// must visit every key in ascending order exactly once.
	n := db.root
	for !n.isLeaf {
		n = n.children[0]
	}
	var prev *int32
	count := 0
	for n != nil {
		for _, k := range n.keys {
			if prev != nil && k <= *prev {
				t.Fatalf("leaf chain not strictly ascending at key %d after %d", k, *prev)
			}
			kk := k
			prev = &kk
			count++
		}
		n = n.next
	}
	if count != db.Count() {
		t.Fatalf("leaf chain visited %d keys, Count() = %d", count, db.Count())
	}
}
