// Package buffer implements the buffer pool manager: the coordinator
// tying a fixed array of page frames, a free list, the LRU-K replacer,
// the extendible hash page table and a disk I/O collaborator together
// into pinned page handles for higher-level callers.
package buffer

import (
	"sync/atomic"

	"github.com/bietkhonhungvandi212/array-db/internal/pageid"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/disk"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/hashtable"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/replacer"
	"github.com/golang-collections/collections/queue"
	deadlock "github.com/sasha-s/go-deadlock"
)

// Config groups the buffer pool's construction-time parameters:
// pool size (frame count), replacer K (the K in LRU-K) and bucket
// size (the page table's per-bucket capacity).
type Config struct {
	PoolSize   int
	ReplacerK  int
	BucketSize int
}

// Pool is the buffer pool manager. All public operations serialize on
// mu; the pool mutex is always acquired before (never after) the
// replacer's or the page table's own internal mutex, and both are
// never held simultaneously.
type Pool struct {
	mu deadlock.Mutex

	frames    []*page.Page
	pageTable *hashtable.ExtendibleHashTable[pageid.PageID, pageid.FrameID]
	replacer  *replacer.LRUK
	freeList  *queue.Queue
	disk      disk.Manager

	nextPageID atomic.Uint64
}

// New constructs a pool of cfg.PoolSize frames, all initially free.
func New(cfg Config, d disk.Manager) *Pool {
	if cfg.PoolSize <= 0 {
		panic(ErrInvalidPoolSize)
	}
	if cfg.BucketSize <= 0 {
		panic(ErrInvalidBucketSize)
	}

	frames := make([]*page.Page, cfg.PoolSize)
	freeList := queue.New()
	for i := range frames {
		frames[i] = page.New()
		freeList.Enqueue(pageid.FrameID(i))
	}

	return &Pool{
		frames:    frames,
		pageTable: hashtable.New[pageid.PageID, pageid.FrameID](cfg.BucketSize, hashPageID),
		replacer:  replacer.New(cfg.PoolSize, cfg.ReplacerK),
		freeList:  freeList,
		disk:      d,
	}
}

// acquireFrame returns a free frame id, evicting (and writing back if
// dirty) when the free list is empty. It returns (0, false) if neither a
// free frame nor an evictable victim is available.
func (p *Pool) acquireFrame() (pageid.FrameID, bool) {
	if p.freeList.Len() > 0 {
		return p.freeList.Dequeue().(pageid.FrameID), true
	}

	victim, ok := p.replacer.Evict()
	if !ok {
		return 0, false
	}

	frame := p.frames[victim]
	if frame.IsDirty() {
		if err := p.disk.WritePage(frame.PageID(), frame.Data()); err != nil {
			// The page table entry for frame's current page was never
			// touched, so it still correctly resolves to this frame.
			// Abort the eviction instead of freeing the frame: pushing it
			// to the free list here would let a later caller overwrite it
			// with a different page while the old id still maps to it.
			p.replacer.RecordAccess(victim)
			p.replacer.SetEvictable(victim, true)
			return 0, false
		}
		frame.SetDirty(false)
	}

	p.pageTable.Remove(frame.PageID())
	return victim, true
}

// NewPage allocates a fresh page, pins it once and returns its handle
// along with the freshly minted page id. Returns (nil, INVALID, false)
// if the pool has no free or evictable frame.
func (p *Pool) NewPage() (*page.Page, pageid.PageID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.acquireFrame()
	if !ok {
		return nil, pageid.Invalid, false
	}

	id := pageid.PageID(p.nextPageID.Add(1) - 1)

	frame := p.frames[frameID]
	frame.SetPageID(id)
	frame.ResetPinCount()
	frame.IncPinCount()
	frame.SetDirty(false)

	p.pageTable.Insert(id, frameID)
	p.replacer.RecordAccess(frameID)
	p.replacer.SetEvictable(frameID, false)

	return frame, id, true
}

// FetchPage returns a pinned handle to id, reading it from disk on a
// cache miss. Returns (nil, false) if id is not resident and the pool
// has no free or evictable frame.
func (p *Pool) FetchPage(id pageid.PageID) (*page.Page, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frameID, ok := p.pageTable.Find(id); ok {
		frame := p.frames[frameID]
		frame.IncPinCount()
		p.replacer.RecordAccess(frameID)
		p.replacer.SetEvictable(frameID, false)
		return frame, true
	}

	frameID, ok := p.acquireFrame()
	if !ok {
		return nil, false
	}

	frame := p.frames[frameID]
	if err := p.disk.ReadPage(id, frame.Data()); err != nil {
		// The frame was never published to the page table under id, but
		// if it came from eviction it may still carry the victim's old
		// page id; reset it to the empty sentinel before returning it to
		// the free list so a frame parked there always reads as empty.
		frame.ResetMemory()
		p.freeList.Enqueue(frameID)
		return nil, false
	}

	frame.SetPageID(id)
	frame.ResetPinCount()
	frame.IncPinCount()
	frame.SetDirty(false)

	p.pageTable.Insert(id, frameID)
	p.replacer.RecordAccess(frameID)
	p.replacer.SetEvictable(frameID, false)

	return frame, true
}

// UnpinPage decrements id's pin count and ORs isDirty into its dirty
// flag. Returns false if id is not resident or is already unpinned.
func (p *Pool) UnpinPage(id pageid.PageID, isDirty bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable.Find(id)
	if !ok {
		return false
	}

	frame := p.frames[frameID]
	if frame.PinCount() <= 0 {
		return false
	}

	newCount := frame.DecPinCount()
	frame.MarkDirty(isDirty)

	if newCount == 0 {
		p.replacer.SetEvictable(frameID, true)
	}
	return true
}

// FlushPage writes id's frame back to disk unconditionally and clears
// its dirty flag. Returns false for a non-resident or invalid id,
// without performing I/O.
func (p *Pool) FlushPage(id pageid.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id == pageid.Invalid {
		return false
	}

	frameID, ok := p.pageTable.Find(id)
	if !ok {
		return false
	}

	frame := p.frames[frameID]
	if err := p.disk.WritePage(id, frame.Data()); err != nil {
		return false
	}
	frame.SetDirty(false)
	return true
}

// FlushAllPages writes back every resident dirty frame. Not an atomic
// snapshot: frames mutated concurrently by other callers between the
// mutex release and the next call are not covered.
func (p *Pool) FlushAllPages() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, frame := range p.frames {
		if frame.PageID() != pageid.Invalid && frame.IsDirty() {
			if err := p.disk.WritePage(frame.PageID(), frame.Data()); err == nil {
				frame.SetDirty(false)
			}
		}
	}
}

// DeletePage removes id from the pool, deallocating its on-disk id.
// Returns false if id is resident and currently pinned; returns true
// (with no pool-side work) if id is not resident.
func (p *Pool) DeletePage(id pageid.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable.Find(id)
	if !ok {
		p.disk.DeallocatePage(id)
		return true
	}

	frame := p.frames[frameID]
	if frame.PinCount() > 0 {
		return false
	}

	if frame.IsDirty() {
		if err := p.disk.WritePage(id, frame.Data()); err != nil {
			return false
		}
	}

	p.pageTable.Remove(id)
	p.replacer.Remove(frameID)

	frame.ResetMemory()
	p.freeList.Enqueue(frameID)
	p.disk.DeallocatePage(id)

	return true
}
