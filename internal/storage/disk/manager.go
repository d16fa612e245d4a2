// Package disk provides the buffer pool's external I/O collaborator: a
// fixed-size-page reader/writer plus on-disk page id allocation. The
// buffer pool core only needs the Manager contract below, and tests
// may swap in the in-memory implementation to avoid touching the
// filesystem.
package disk

import "github.com/bietkhonhungvandi212/array-db/internal/pageid"

// Manager is the disk collaborator the buffer pool manager drives. Every
// implementation must treat buf as exactly page.Size bytes.
type Manager interface {
	// ReadPage fills buf with the persisted contents of id.
	ReadPage(id pageid.PageID, buf []byte) error
	// WritePage persists buf as the contents of id, growing backing
	// storage if necessary.
	WritePage(id pageid.PageID, buf []byte) error
	// AllocatePage reserves and returns a fresh on-disk page id.
	AllocatePage() pageid.PageID
	// DeallocatePage releases an on-disk page id. This revision does not
	// reclaim on-disk space; it exists so the buffer pool manager has
	// somewhere to report deletions.
	DeallocatePage(id pageid.PageID)
	// Close releases the underlying resource.
	Close() error
}
