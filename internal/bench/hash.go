// internal/bench/hash.go
//
// Grounded directly on original_source/hashtest.c: hash() is the djb2
// string hash (hash*33+c) the source uses to compare a hash-bucket
// lookup against a linear scan. This is an external collaborator only —
// it never reaches into internal/bptree, and it does not exercise
// DB_FLAG_HASH, which has no implementation anywhere in this tree.
package bench

// hash is djb2, matching hashtest.c's hash() byte for byte: seed 5381,
// hash = hash*33 + c for every byte.
func hash(s []byte) uint64 {
	var h uint64 = 5381
	for _, c := range s {
		h = ((h << 5) + h) + uint64(c)
	}
	return h
}
