package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNotFound is returned when a fragment is not cached or has expired.
	ErrNotFound = errors.New("cache: fragment not found")

	// ErrClosed is returned when an operation is attempted on a closed cache.
	ErrClosed = errors.New("cache: closed")

	// ErrMarshal is returned when fragment serialization fails.
	ErrMarshal = errors.New("cache: failed to marshal fragment")

	// ErrUnmarshal is returned when fragment deserialization fails.
	ErrUnmarshal = errors.New("cache: failed to unmarshal fragment")
)
