package i18n

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// FragmentCache stores fetched fragments. pkg/cache provides memory and Redis
// implementations.
type FragmentCache interface {
	Get(ctx context.Context, lang, scope string) (map[string]any, error)
	Set(ctx context.Context, lang, scope string, fragment map[string]any, ttl time.Duration) error
}

// CachingFetcher serves fragments from a FragmentCache and falls back to the
// wrapped Fetcher on a miss. Concurrent misses for the same fragment share a
// single upstream request.
type CachingFetcher struct {
	next  Fetcher
	cache FragmentCache
	group singleflight.Group
	ttl   time.Duration
}

// NewCachingFetcher wraps next with cache. ttl follows the cache semantics:
// zero uses the cache default, negative never expires.
func NewCachingFetcher(next Fetcher, cache FragmentCache, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{next: next, cache: cache, ttl: ttl}
}

// Fetch implements Fetcher. Cache read and write failures are not fatal:
// the fragment is fetched from upstream and returned regardless.
//
// The upstream request is shared by all concurrent callers and runs detached
// from their cancellation. A caller whose ctx ends stops waiting with
// ctx.Err(); the others still get the fragment.
func (f *CachingFetcher) Fetch(ctx context.Context, lang, scope string) (Tree, error) {
	if tree, err := f.cache.Get(ctx, lang, scope); err == nil {
		return tree, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := f.group.DoChan(lang+"\x00"+scope, func() (any, error) {
		tree, err := f.next.Fetch(detached, lang, scope)
		if err != nil {
			return nil, err
		}
		_ = f.cache.Set(detached, lang, scope, tree, f.ttl)
		return tree, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Tree), nil
	}
}

var _ Fetcher = (*CachingFetcher)(nil)
