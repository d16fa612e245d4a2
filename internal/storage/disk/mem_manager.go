package disk

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bietkhonhungvandi212/array-db/internal/pageid"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
	"github.com/dsnet/golib/memfile"
)

// MemManager is an in-memory Manager backed by github.com/dsnet/golib/memfile,
// grounded in ryogrid-SamehadaDB's VirtualDiskManagerImpl (and its sametree
// sibling), both of which wrap memfile.File as a drop-in disk manager for
// tests that want real byte-offset semantics without touching the
// filesystem. WriteAt on a memfile.File grows its backing slice as
// needed, so no explicit truncate/grow step is required here.
type MemManager struct {
	mu         sync.Mutex
	file       *memfile.File
	size       int64
	nextPageID atomic.Uint64
}

// NewMemManager returns a MemManager with no backing bytes allocated yet.
func NewMemManager() *MemManager {
	return &MemManager{file: memfile.New(make([]byte, 0))}
}

// ReadPage fills buf from the in-memory offset for id.
func (m *MemManager) ReadPage(id pageid.PageID, buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	offset := int64(id) * page.Size
	if offset+page.Size > m.size {
		return fmt.Errorf("disk: read page %d: %w", id, ErrShortRead)
	}
	if _, err := m.file.ReadAt(buf[:page.Size], offset); err != nil {
		return fmt.Errorf("disk: read page %d: %w", id, err)
	}
	return nil
}

// WritePage persists buf at the in-memory offset for id.
func (m *MemManager) WritePage(id pageid.PageID, buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	offset := int64(id) * page.Size
	if _, err := m.file.WriteAt(buf[:page.Size], offset); err != nil {
		return fmt.Errorf("disk: write page %d: %w", id, err)
	}
	if end := offset + page.Size; end > m.size {
		m.size = end
	}
	return nil
}

// AllocatePage reserves the next sequential on-disk page id.
func (m *MemManager) AllocatePage() pageid.PageID {
	return pageid.PageID(m.nextPageID.Add(1) - 1)
}

// DeallocatePage is a no-op: reclaiming space is out of scope.
func (m *MemManager) DeallocatePage(pageid.PageID) {}

// Close is a no-op: there is no OS resource to release.
func (m *MemManager) Close() error { return nil }

var _ Manager = (*MemManager)(nil)
