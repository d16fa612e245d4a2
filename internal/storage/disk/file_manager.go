package disk

import (
	"fmt"
	"os"
	"sync"

	"github.com/bietkhonhungvandi212/array-db/internal/pageid"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
)

// FileManager is the file-backed Manager: each page lives at a fixed
// offset (id * page.Size) in a single on-disk file, read and written
// with ReadAt/WriteAt under a mutex.
//
// An earlier mmap-based disk manager (mmap/munmap via a Windows-only
// syscall pair) could never compile on this platform. ReadAt/WriteAt
// deliver the same "read/write a fixed-size buffer at a page offset"
// contract portably, in the style of ryogrid-SamehadaDB's
// DiskManagerImpl (Seek+Read/Write under a mutex, Sync after write,
// Size tracked alongside the file).
type FileManager struct {
	mu         sync.Mutex
	file       *os.File
	size       int64
	nextPageID pageid.PageID
}

// NewFileManager opens (creating if necessary) path and sizes it to hold
// at least initialPages pages.
func NewFileManager(path string, initialPages int) (*FileManager, error) {
	if initialPages <= 0 {
		return nil, ErrInvalidCapacity
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("disk: open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("disk: stat file: %w", err)
	}

	size := info.Size()
	want := int64(initialPages) * page.Size
	if size < want {
		if err := f.Truncate(want); err != nil {
			f.Close()
			return nil, fmt.Errorf("disk: truncate file: %w", err)
		}
		size = want
	}

	nextPageID := pageid.PageID(size / page.Size)

	return &FileManager{file: f, size: size, nextPageID: nextPageID}, nil
}

// ReadPage fills buf from the on-disk offset for id.
func (fm *FileManager) ReadPage(id pageid.PageID, buf []byte) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	offset := int64(id) * page.Size
	if offset+page.Size > fm.size {
		return fmt.Errorf("disk: read page %d: %w", id, ErrShortRead)
	}

	n, err := fm.file.ReadAt(buf[:page.Size], offset)
	if err != nil {
		return fmt.Errorf("disk: read page %d: %w", id, err)
	}
	if n < page.Size {
		return fmt.Errorf("disk: read page %d: %w", id, ErrShortRead)
	}
	return nil
}

// WritePage persists buf at the on-disk offset for id, growing the file
// if the offset falls past the current end.
func (fm *FileManager) WritePage(id pageid.PageID, buf []byte) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	offset := int64(id) * page.Size
	end := offset + page.Size
	if end > fm.size {
		if err := fm.file.Truncate(end); err != nil {
			return fmt.Errorf("disk: grow file for page %d: %w", id, err)
		}
		fm.size = end
	}

	if _, err := fm.file.WriteAt(buf[:page.Size], offset); err != nil {
		return fmt.Errorf("disk: write page %d: %w", id, err)
	}
	return fm.file.Sync()
}

// AllocatePage reserves the next sequential on-disk page id.
func (fm *FileManager) AllocatePage() pageid.PageID {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	id := fm.nextPageID
	fm.nextPageID++
	return id
}

// DeallocatePage is a no-op: reclaiming on-disk space is out of scope.
func (fm *FileManager) DeallocatePage(pageid.PageID) {}

// Close closes the backing file (every WritePage has already synced its
// write). Idempotent.
func (fm *FileManager) Close() error {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	if fm.file == nil {
		return nil
	}
	err := fm.file.Close()
	fm.file = nil
	return err
}

var _ Manager = (*FileManager)(nil)
