package replacer

import (
	"testing"

	"github.com/bietkhonhungvandi212/array-db/internal/pageid"
	"github.com/stretchr/testify/assert"
)

func TestEvictOnEmptyFails(t *testing.T) {
	r := New(4, 2)
	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestRecordAccessMarksNonEvictableByDefault(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(0)
	assert.Equal(t, 0, r.Size())
}

func TestSetEvictableOnUnknownFrameIsNoOp(t *testing.T) {
	r := New(4, 2)
	r.SetEvictable(3, true)
	assert.Equal(t, 0, r.Size())
}

func TestSetEvictableTogglesSize(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(0)
	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())
	r.SetEvictable(0, false)
	assert.Equal(t, 0, r.Size())
	// no-op if already in that state
	r.SetEvictable(0, false)
	assert.Equal(t, 0, r.Size())
}

// TestTieBreakInfiniteDominatesAndFIFO covers k=2, access frames f1,
// f2, f3 once each (f1 earliest), mark all evictable -> evict returns
// f1 (earliest first access among infinite-distance candidates).
func TestTieBreakInfiniteDominatesAndFIFO(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(1)
	r.RecordAccess(2)
	r.RecordAccess(3)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)
	r.SetEvictable(3, true)

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, pageid.FrameID(1), victim)
}

// TestKDistanceOrdering covers three accesses each to f1 and f3 and two
// to f2, such that f2's second-to-last access is oldest, so eviction
// returns f2.
func TestKDistanceOrdering(t *testing.T) {
	r := New(4, 2)

	// Build up history so every frame has >= k=2 accesses, f2 ends up
	// with the oldest k-th-most-recent (front) timestamp.
	r.RecordAccess(1) // t0
	r.RecordAccess(2) // t1
	r.RecordAccess(3) // t2
	r.RecordAccess(1) // t3 -> f1 front=t0
	r.RecordAccess(2) // t4 -> f2 front=t1
	r.RecordAccess(3) // t5 -> f3 front=t2
	r.RecordAccess(1) // t6 -> f1 front=t3
	r.RecordAccess(3) // t7 -> f3 front=t5
	// f2 untouched since t4, so its front stays at t1, the oldest of the three

	r.SetEvictable(1, true)
	r.SetEvictable(2, true)
	r.SetEvictable(3, true)

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, pageid.FrameID(2), victim)
}

// TestKEqualsOneIsClassicalLRU: with k=1 only the most recent access
// matters, i.e. plain LRU over a single timestamp.
func TestKEqualsOneIsClassicalLRU(t *testing.T) {
	r := New(4, 1)
	r.RecordAccess(1)
	r.RecordAccess(2)
	r.RecordAccess(1) // 1 is now most recently touched
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, pageid.FrameID(2), victim)
}

func TestEvictRemovesRecordAndDecrementsSize(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(0)
	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, pageid.FrameID(0), victim)
	assert.Equal(t, 0, r.Size())

	_, ok = r.Evict()
	assert.False(t, ok)
}

func TestRemoveErasesRecord(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(0)
	r.SetEvictable(0, true)
	r.Remove(0)
	assert.Equal(t, 0, r.Size())
}

func TestRemoveUnknownFrameIsNoOp(t *testing.T) {
	r := New(4, 2)
	assert.NotPanics(t, func() { r.Remove(2) })
}

func TestRemoveNonEvictablePanics(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(0)
	assert.Panics(t, func() { r.Remove(0) })
}

func TestRecordAccessOutOfRangePanics(t *testing.T) {
	r := New(4, 2)
	assert.Panics(t, func() { r.RecordAccess(10) })
}

func TestSetEvictableOutOfRangePanics(t *testing.T) {
	r := New(4, 2)
	assert.Panics(t, func() { r.SetEvictable(10, true) })
}

func TestRemoveOutOfRangePanics(t *testing.T) {
	r := New(4, 2)
	assert.Panics(t, func() { r.Remove(10) })
}

func TestNewWithKZeroPanics(t *testing.T) {
	assert.Panics(t, func() { New(4, 0) })
}

func TestBasicChurnVictimIsFewestAccesses(t *testing.T) {
	// p1's frame has one access, p2 and p3 each have one access but
	// later, all evictable with k=2 -> fewest-access (infinite
	// distance) frames tie-break on earliest first access, which is p1.
	r := New(3, 2)
	r.RecordAccess(0) // p1's frame
	r.RecordAccess(1) // p2's frame
	r.RecordAccess(2) // p3's frame
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, pageid.FrameID(0), victim)
}
