// Package index provides the hashed name index backing a TIL bucket's
// by-name type lookup (Component I, §4.5). It hashes a type name to a
// uint64 key with xxhash the same way the teacher package hashes metric
// names for its by-ID/by-name dual lookup (internal/hash/id.go).
package index

import "github.com/cespare/xxhash/v2"

// NameHash returns the xxHash64 of name, used as the key of a bucket's
// name-to-entry index.
func NameHash(name string) uint64 {
	return xxhash.Sum64String(name)
}

// ByName is a hashed-name index mapping a type name to a slot index in
// some parallel slice of entries. Collisions are resolved by storing all
// colliding slots and confirming with an exact string compare at lookup
// time (mirrors the teacher's collision tracker approach for metric
// names, simplified to this package's single-writer-then-read-only
// lifecycle).
type ByName struct {
	buckets map[uint64][]int
}

// NewByName creates an empty index.
func NewByName() *ByName {
	return &ByName{buckets: make(map[uint64][]int)}
}

// Add records that name lives at slot.
func (b *ByName) Add(name string, slot int) {
	h := NameHash(name)
	b.buckets[h] = append(b.buckets[h], slot)
}

// Lookup returns the slots recorded for name's exact hash bucket. The
// caller must still compare names, since this only narrows by hash.
func (b *ByName) Lookup(name string) []int {
	return b.buckets[NameHash(name)]
}
