package cache

import (
	"context"
	"time"
)

// Fragment is a decoded translation fragment.
type Fragment = map[string]any

// Cache stores translation fragments addressed by language and scope.
// The root scope is the empty string.
//
// TTL semantics for Set:
//   - Positive duration: fragment expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: fragment never expires
//
// Cached fragments are shared with callers and must not be modified.
type Cache interface {
	// Get returns the fragment for lang and scope.
	// Returns ErrNotFound if it is absent or has expired.
	Get(ctx context.Context, lang, scope string) (Fragment, error)

	// Set stores the fragment for lang and scope with the given TTL.
	Set(ctx context.Context, lang, scope string, fragment Fragment, ttl time.Duration) error

	// Delete removes the fragment for lang and scope.
	Delete(ctx context.Context, lang, scope string) error

	// DeleteLanguage removes every fragment of lang.
	DeleteLanguage(ctx context.Context, lang string) error

	// Clear removes all fragments.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Stats holds cache hit and miss counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}
