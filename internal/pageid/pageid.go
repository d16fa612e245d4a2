// Package pageid defines the identifier types shared by the disk manager,
// the page table, the replacer and the buffer pool.
package pageid

// PageID identifies a page on disk. The zero value is a valid page id;
// callers that need "no page" use Invalid.
type PageID uint64

// Invalid is the sentinel page id meaning "no page".
const Invalid PageID = ^PageID(0)

// FrameID identifies a frame slot inside the buffer pool's frame array.
type FrameID int32

// InvalidFrame is the sentinel frame id meaning "no frame". It is never
// returned to callers outside this module.
const InvalidFrame FrameID = -1
