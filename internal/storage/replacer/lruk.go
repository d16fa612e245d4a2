// Package replacer implements the LRU-K eviction policy used by the
// buffer pool manager to pick a victim frame.
package replacer

import (
	"fmt"

	"github.com/bietkhonhungvandi212/array-db/internal/pageid"
	"github.com/devlights/gomy/output"
	deadlock "github.com/sasha-s/go-deadlock"
)

// frameRecord is a replacer frame record: the most recent k access
// timestamps (oldest at the front) plus the evictable flag. A frame
// defaults to non-evictable on its first observation.
type frameRecord struct {
	accessTimestamps []uint64
	evictable        bool
}

// LRUK selects for eviction the frame whose k-th most recent access is
// furthest in the past ("largest backward k-distance"); frames with
// fewer than k accesses are treated as having infinite backward
// k-distance and dominate any finite-distance candidate.
//
// All operations acquire a single replacer-internal mutex
// (deadlock.Mutex rather than a bare sync.Mutex, so a lock-order
// inversion is caught during tests instead of hanging in production)
// and are short and non-blocking beyond that lock.
type LRUK struct {
	mu deadlock.Mutex

	numFrames        int
	k                int
	frames           map[pageid.FrameID]*frameRecord
	currentTimestamp uint64
	evictableCount   int
}

// New constructs an LRU-K replacer over numFrames frame ids and the given
// k. k < 1 is a programmer error and panics.
func New(numFrames int, k int) *LRUK {
	if k < 1 {
		fatalf("replacer: k must be >= 1, got %d", k)
	}
	return &LRUK{
		numFrames: numFrames,
		k:         k,
		frames:    make(map[pageid.FrameID]*frameRecord),
	}
}

// RecordAccess appends the current timestamp to frameID's history,
// creating its record (as non-evictable) if this is the first access.
// Out-of-range frameID is a programmer error and panics.
func (r *LRUK) RecordAccess(frameID pageid.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkRange(frameID)

	rec, ok := r.frames[frameID]
	if !ok {
		rec = &frameRecord{}
		r.frames[frameID] = rec
	}

	rec.accessTimestamps = append(rec.accessTimestamps, r.currentTimestamp)
	if len(rec.accessTimestamps) > r.k {
		rec.accessTimestamps = rec.accessTimestamps[1:]
	}
	r.currentTimestamp++
}

// SetEvictable marks frameID evictable or not. A frame with no record is
// silently ignored — the replacer only knows about frames introduced via
// RecordAccess.
func (r *LRUK) SetEvictable(frameID pageid.FrameID, evictable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkRange(frameID)

	rec, ok := r.frames[frameID]
	if !ok {
		return
	}
	if rec.evictable == evictable {
		return
	}
	rec.evictable = evictable
	if evictable {
		r.evictableCount++
	} else {
		r.evictableCount--
	}
}

// Evict picks a victim among evictable frames and removes its record,
// returning (frameID, true). It returns (0, false) if no frame is
// currently evictable.
//
// Candidates with fewer than k recorded accesses have infinite backward
// distance and dominate any finite-distance candidate; among those,
// the earliest first-access timestamp wins (FIFO). Otherwise the
// candidate whose k-th most recent access is furthest in the past wins.
func (r *LRUK) Evict() (pageid.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.evictableCount == 0 {
		return 0, false
	}

	var (
		victim       pageid.FrameID
		found        bool
		haveInfinite bool
		bestFirst    uint64
		bestBwdist   uint64
	)

	for fid, rec := range r.frames {
		if !rec.evictable {
			continue
		}

		first := rec.accessTimestamps[0]
		if len(rec.accessTimestamps) < r.k {
			// Infinite backward distance: dominates any finite candidate;
			// among infinite candidates, earliest first-access wins (FIFO).
			if !haveInfinite || first < bestFirst {
				victim, found, haveInfinite, bestFirst = fid, true, true, first
			}
			continue
		}

		if haveInfinite {
			continue // an infinite-distance candidate already dominates
		}

		bwdist := r.currentTimestamp - first
		if !found || bwdist > bestBwdist {
			victim, found, bestBwdist = fid, true, bwdist
		}
	}

	delete(r.frames, victim)
	r.evictableCount--
	return victim, true
}

// Remove erases frameID's record entirely. The caller guarantees the
// frame is evictable; removing a non-evictable frame is a programmer
// error and panics. Removing a frame with no record is a no-op.
func (r *LRUK) Remove(frameID pageid.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkRange(frameID)

	rec, ok := r.frames[frameID]
	if !ok {
		return
	}
	if !rec.evictable {
		fatalf("replacer: cannot remove non-evictable frame %d", frameID)
	}
	delete(r.frames, frameID)
	r.evictableCount--
}

// Size returns the current count of evictable frames.
func (r *LRUK) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictableCount
}

func (r *LRUK) checkRange(frameID pageid.FrameID) {
	if frameID < 0 || int(frameID) >= r.numFrames {
		fatalf("replacer: frame id %d out of range [0, %d)", frameID, r.numFrames)
	}
}

// fatalf logs a one-line diagnostic (mirroring common.RuntimeStack's use
// of gomy/output to surface goroutine state before a fatal condition is
// reported) and panics. Reserved for programmer errors — out-of-range
// frame ids and similar caller contract violations — never for
// conditions a caller can legitimately hit at runtime.
func fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	output.Stdoutl("replacer fatal: ", msg)
	panic(msg)
}
