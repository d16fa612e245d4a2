package disk

import "errors"

var (
	// ErrInvalidCapacity is returned when a manager is constructed with a
	// non-positive initial page count.
	ErrInvalidCapacity = errors.New("disk: initial page count must be positive")
	// ErrShortRead is returned when fewer than page.Size bytes were
	// available to satisfy a read past the allocated region.
	ErrShortRead = errors.New("disk: short read past end of file")
)
