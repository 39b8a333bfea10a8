package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// rootScopeKey stands in for the empty root scope in Redis keys.
const rootScopeKey = "_root"

// RedisOption configures the Redis cache.
type RedisOption func(*Redis)

// WithPrefix sets the key namespace. Fragments are stored as
// "{prefix}:{lang}:{scope}". Default: "i18n".
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithRedisDefaultTTL sets the expiration used when Set is called with a
// zero TTL. Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.defaultTTL = d
	}
}

// Redis is a fragment cache shared between application instances.
// Fragments are stored as JSON.
type Redis struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// NewRedis creates a Redis-backed fragment cache.
// The client should be obtained from pkg/redis.Open or pkg/redis.MustOpen.
//
// Example:
//
//	client := redis.MustOpen(ctx, cfg.RedisURL)
//	c := cache.NewRedis(client,
//	    cache.WithPrefix("lingua"),
//	    cache.WithRedisDefaultTTL(30 * time.Minute),
//	)
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client:     client,
		prefix:     "i18n",
		defaultTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, lang, scope string) (Fragment, error) {
	data, err := r.client.Get(ctx, r.key(lang, scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fragment Fragment
	if err := json.Unmarshal(data, &fragment); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return fragment, nil
}

// Set implements Cache. A negative TTL stores the fragment without expiration.
func (r *Redis) Set(ctx context.Context, lang, scope string, fragment Fragment, ttl time.Duration) error {
	data, err := json.Marshal(fragment)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	if ttl == 0 {
		ttl = r.defaultTTL
	}

	// Redis treats 0 as no expiration.
	return r.client.Set(ctx, r.key(lang, scope), data, max(ttl, 0)).Err()
}

// Delete implements Cache.
func (r *Redis) Delete(ctx context.Context, lang, scope string) error {
	return r.client.Del(ctx, r.key(lang, scope)).Err()
}

// DeleteLanguage implements Cache.
func (r *Redis) DeleteLanguage(ctx context.Context, lang string) error {
	return r.deleteMatching(ctx, r.prefix+":"+lang+":*")
}

// Clear implements Cache. Only keys under the configured prefix are removed.
func (r *Redis) Clear(ctx context.Context) error {
	return r.deleteMatching(ctx, r.prefix+":*")
}

// Close is a no-op. The client lifecycle is managed by pkg/redis.Shutdown.
func (r *Redis) Close() error {
	return nil
}

func (r *Redis) key(lang, scope string) string {
	if scope == "" {
		scope = rootScopeKey
	}
	return r.prefix + ":" + lang + ":" + scope
}

// deleteMatching removes keys matching pattern using SCAN, which does not
// block the server the way KEYS does.
func (r *Redis) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

var _ Cache = (*Redis)(nil)
