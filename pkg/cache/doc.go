// Package cache provides translation fragment caches with in-memory and Redis
// implementations.
//
// Fragments are addressed by language and scope. Both implementations satisfy
// [Cache] and, through it, the i18n.FragmentCache interface consumed by
// i18n.CachingFetcher:
//
//	c := cache.NewMemory(cache.WithDefaultTTL(10 * time.Minute))
//	defer c.Close()
//
//	fetcher := i18n.NewCachingFetcher(i18n.NewHTTPFetcher(baseURL), c, 0)
//
// TTL semantics for Set:
//   - Positive duration: fragment expires after this duration
//   - Zero: use the cache's configured default TTL (1 hour by default)
//   - Negative: fragment never expires
//
// # In-Memory Cache
//
// [NewMemory] keeps fragments in a hash map with an LRU list for eviction
// when [WithMaxEntries] is set. A background janitor removes expired
// fragments; [Memory.Close] stops it.
//
// # Redis Cache
//
// [NewRedis] shares fragments between instances. It requires a
// [github.com/redis/go-redis/v9.UniversalClient] from pkg/redis.
// Keys have the form "{prefix}:{lang}:{scope}" with "_root" for the root
// scope, so [Redis.DeleteLanguage] and [Redis.Clear] can SCAN by pattern.
//
// # Error Handling
//
//   - [ErrNotFound] — fragment is not cached or has expired
//   - [ErrClosed] — operation on a closed cache
//   - [ErrMarshal] — fragment serialization failed
//   - [ErrUnmarshal] — fragment deserialization failed
package cache
