// Package hashtable implements a generic extendible hash table: a
// grow-only directory-of-buckets index offering expected O(1) find,
// insert and remove, used by the buffer pool manager as its page table
// (page id -> frame id).
//
// Ported from bustub's container/hash/extendible_hash_table.{h,cpp}
// (see original_source/), with Go generics standing in for the C++
// template parameters.
package hashtable

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	deadlock "github.com/sasha-s/go-deadlock"
)

// bucket holds up to maxSize key/value pairs and a local depth. Multiple
// directory slots may reference the same bucket when its local depth is
// less than the table's global depth.
type bucket[K comparable, V any] struct {
	pairs      map[K]V
	maxSize    int
	localDepth int
}

func newBucket[K comparable, V any](maxSize, localDepth int) *bucket[K, V] {
	return &bucket[K, V]{pairs: make(map[K]V, maxSize), maxSize: maxSize, localDepth: localDepth}
}

func (b *bucket[K, V]) find(key K) (V, bool) {
	v, ok := b.pairs[key]
	return v, ok
}

func (b *bucket[K, V]) remove(key K) bool {
	if _, ok := b.pairs[key]; !ok {
		return false
	}
	delete(b.pairs, key)
	return true
}

func (b *bucket[K, V]) isFull() bool { return len(b.pairs) >= b.maxSize }

// insert overwrites an existing key, appends if there is room, or
// reports failure (caller must split and retry) if the bucket is full.
func (b *bucket[K, V]) insert(key K, value V) bool {
	if _, exists := b.pairs[key]; exists {
		b.pairs[key] = value
		return true
	}
	if b.isFull() {
		return false
	}
	b.pairs[key] = value
	return true
}

// ExtendibleHashTable is a grow-only hash index from K to V, with a
// directory of length 2^globalDepth and buckets of capacity bucketSize.
// A single table-wide mutex guards all operations; splitting is not
// reentrant.
type ExtendibleHashTable[K comparable, V any] struct {
	mu deadlock.Mutex

	hashFn      func(K) uint64
	bucketSize  int
	globalDepth int
	numBuckets  int
	dir         []*bucket[K, V]
}

// New constructs a table with the given bucket capacity and hash
// function. The hash function must distribute across bit positions: the
// directory index is the low globalDepth bits of its output.
func New[K comparable, V any](bucketSize int, hashFn func(K) uint64) *ExtendibleHashTable[K, V] {
	if bucketSize < 1 {
		panic(fmt.Sprintf("hashtable: bucket size must be >= 1, got %d", bucketSize))
	}
	return &ExtendibleHashTable[K, V]{
		hashFn:      hashFn,
		bucketSize:  bucketSize,
		globalDepth: 0,
		numBuckets:  1,
		dir:         []*bucket[K, V]{newBucket[K, V](bucketSize, 0)},
	}
}

// indexOf computes the directory index for key: the low globalDepth bits
// of its hash. Caller must hold t.mu.
func (t *ExtendibleHashTable[K, V]) indexOf(key K) int {
	mask := uint64(1)<<uint(t.globalDepth) - 1
	return int(t.hashFn(key) & mask)
}

// Find returns the value associated with key, if present.
func (t *ExtendibleHashTable[K, V]) Find(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(key)
	if idx < 0 || idx >= len(t.dir) {
		var zero V
		return zero, false // defensive; unreachable if invariants hold
	}
	return t.dir[idx].find(key)
}

// Remove deletes key from its bucket. The bucket may become empty but is
// not merged back into a sibling (merging is not a goal of this table).
func (t *ExtendibleHashTable[K, V]) Remove(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(key)
	if idx < 0 || idx >= len(t.dir) {
		return false
	}
	return t.dir[idx].remove(key)
}

// Insert writes key/value, overwriting an existing entry, or splitting
// the target bucket (possibly cascading, and possibly doubling the
// directory) and retrying until the insert succeeds.
func (t *ExtendibleHashTable[K, V]) Insert(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		idx := t.indexOf(key)
		target := t.dir[idx]
		if target.insert(key, value) {
			return
		}
		t.splitBucket(target)
	}
}

// splitBucket splits b, doubling the directory first if b's local depth
// has already caught up with the global depth. Caller must hold t.mu.
func (t *ExtendibleHashTable[K, V]) splitBucket(b *bucket[K, V]) {
	if b.localDepth == t.globalDepth {
		t.dir = append(t.dir, t.dir...)
		t.globalDepth++
	}

	newLocalDepth := b.localDepth + 1
	b.localDepth = newLocalDepth
	sibling := newBucket[K, V](t.bucketSize, newLocalDepth)
	t.numBuckets++

	splitBit := uint(newLocalDepth - 1)
	splitMask := 1 << splitBit

	for i := range t.dir {
		if t.dir[i] == b && i&splitMask != 0 {
			t.dir[i] = sibling
		}
	}

	for key, value := range b.pairs {
		idx := t.indexOf(key)
		if t.dir[idx] == sibling {
			sibling.pairs[key] = value
			delete(b.pairs, key)
		}
	}
}

// GlobalDepth returns the number of bits used to index the directory.
func (t *ExtendibleHashTable[K, V]) GlobalDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalDepth
}

// LocalDepth returns the local depth of the bucket at directory index i.
func (t *ExtendibleHashTable[K, V]) LocalDepth(i int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[i].localDepth
}

// NumBuckets returns the number of distinct bucket objects reachable
// through the directory.
func (t *ExtendibleHashTable[K, V]) NumBuckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.numBuckets
}

// DistinctBuckets recomputes the set of distinct bucket objects reachable
// through the directory directly, deduplicating with a
// github.com/deckarep/golang-set/v2 set rather than a bespoke map[*T]struct{}
// — the same dependency the pack already reaches for to deduplicate
// collections of comparable objects (planner/optimizer/optimizer_test.go).
// Exposed for tests asserting invariant 6 independent of the numBuckets
// counter maintained incrementally by splitBucket.
func (t *ExtendibleHashTable[K, V]) DistinctBuckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := mapset.NewThreadUnsafeSet[*bucket[K, V]]()
	for _, b := range t.dir {
		seen.Add(b)
	}
	return seen.Cardinality()
}
