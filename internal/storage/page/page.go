// Package page defines the fixed-size in-memory frame representation
// shared by the disk manager, the replacer and the buffer pool manager.
package page

import (
	"sync/atomic"

	"github.com/bietkhonhungvandi212/array-db/internal/pageid"
)

// Size is the fixed size, in bytes, of a page's on-disk payload.
const Size = 4096

// Page is the in-memory representation of one buffer pool frame: a fixed
// payload buffer plus the pin/dirty bookkeeping the buffer pool manager
// and replacer need to decide eviction and flushing. Only the payload
// (Data) is ever written to or read from disk; PageID/PinCount/Dirty are
// pool-local accounting and are never serialized.
type Page struct {
	id       pageid.PageID
	pinCount int32
	dirty    bool
	data     [Size]byte
}

// New returns a frame initialized to the empty state (INVALID page id,
// zero pin count, clean).
func New() *Page {
	return &Page{id: pageid.Invalid}
}

// PageID returns the identifier of the page currently occupying this frame.
func (p *Page) PageID() pageid.PageID { return p.id }

// SetPageID assigns the page id occupying this frame.
func (p *Page) SetPageID(id pageid.PageID) { p.id = id }

// PinCount returns the current pin count.
func (p *Page) PinCount() int32 { return atomic.LoadInt32(&p.pinCount) }

// IncPinCount increments the pin count and returns the new value.
func (p *Page) IncPinCount() int32 { return atomic.AddInt32(&p.pinCount, 1) }

// DecPinCount decrements the pin count and returns the new value.
func (p *Page) DecPinCount() int32 { return atomic.AddInt32(&p.pinCount, -1) }

// ResetPinCount forces the pin count to zero. Used when recycling a frame.
func (p *Page) ResetPinCount() { atomic.StoreInt32(&p.pinCount, 0) }

// IsDirty reports whether the frame diverges from its on-disk contents.
func (p *Page) IsDirty() bool { return p.dirty }

// SetDirty sets the dirty flag directly. Used after a write-back clears it.
func (p *Page) SetDirty(dirty bool) { p.dirty = dirty }

// MarkDirty ORs dirty into the existing flag, per unpin_page semantics: a
// clean unpin must never clear a dirty flag set by an earlier caller.
func (p *Page) MarkDirty(dirty bool) {
	if dirty {
		p.dirty = true
	}
}

// Data returns the page's fixed-size payload for disk I/O and for callers
// to read or mutate in place. The buffer pool manager does not guard
// against use of this slice after the page is unpinned; that is a caller
// contract.
func (p *Page) Data() []byte { return p.data[:] }

// ResetMemory zeroes the payload and clears all bookkeeping fields. Used
// when a frame returns to the free list after delete_page.
func (p *Page) ResetMemory() {
	p.id = pageid.Invalid
	atomic.StoreInt32(&p.pinCount, 0)
	p.dirty = false
	for i := range p.data {
		p.data[i] = 0
	}
}
