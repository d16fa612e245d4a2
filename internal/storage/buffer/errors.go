package buffer

import "errors"

var (
	// ErrInvalidPoolSize is a programmer error: pool_size must be positive.
	ErrInvalidPoolSize = errors.New("buffer: pool size must be positive")
	// ErrInvalidBucketSize is a programmer error: bucket_size must be positive.
	ErrInvalidBucketSize = errors.New("buffer: bucket size must be positive")
)
