package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection settings of the fragment cache.
// Fields are read from the environment by pkg/config.
type Config struct {
	URL           string        `env:"REDIS_URL"`
	PoolSize      int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns  int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ReadTimeout   time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout  time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	DialTimeout   time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
}

// DefaultConfig returns the settings used for zero Config fields.
func DefaultConfig() Config {
	return Config{
		PoolSize:      10,
		MinIdleConns:  2,
		RetryAttempts: 3,
		RetryInterval: 2 * time.Second,
		ReadTimeout:   3 * time.Second,
		WriteTimeout:  3 * time.Second,
		DialTimeout:   5 * time.Second,
	}
}

// Option configures Open.
type Option func(*Config)

// WithPoolSize sets the maximum number of connections in the pool.
func WithPoolSize(n int) Option {
	return func(c *Config) {
		c.PoolSize = n
	}
}

// WithRetry configures connection retry behavior. The wait between attempts
// grows linearly with the attempt number.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(c *Config) {
		c.RetryAttempts = attempts
		c.RetryInterval = interval
	}
}

// Open connects to the Redis server at url. Supports the redis:// and
// rediss:// (TLS) schemes.
//
// Example:
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0",
//	    redis.WithRetry(5, time.Second),
//	)
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	cfg := DefaultConfig()
	cfg.URL = url
	for _, opt := range opts {
		opt(&cfg)
	}
	return OpenConfig(ctx, cfg, nil)
}

// OpenConfig connects using cfg, filling zero fields from DefaultConfig.
// Failed attempts are logged to logger when it is not nil.
func OpenConfig(ctx context.Context, cfg Config, logger *slog.Logger) (redis.UniversalClient, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.URL, "redis://") && !strings.HasPrefix(cfg.URL, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	cfg = withDefaults(cfg)
	redisOpts.PoolSize = cfg.PoolSize
	redisOpts.MinIdleConns = cfg.MinIdleConns
	redisOpts.ReadTimeout = cfg.ReadTimeout
	redisOpts.WriteTimeout = cfg.WriteTimeout
	redisOpts.DialTimeout = cfg.DialTimeout

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return connect(ctx, redisOpts, cfg.RetryAttempts, cfg.RetryInterval, logger)
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = def.PoolSize
	}
	if cfg.MinIdleConns < 0 {
		cfg.MinIdleConns = def.MinIdleConns
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = def.RetryAttempts
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = def.DialTimeout
	}
	return cfg
}

func connect(ctx context.Context, opts *redis.Options, attempts int, interval time.Duration, logger *slog.Logger) (redis.UniversalClient, error) {
	attempts = max(attempts, 1)

	var lastErr error
	for i := range attempts {
		client := redis.NewClient(opts)

		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		logger.WarnContext(ctx, "redis connection attempt failed",
			slog.Int("attempt", i+1),
			slog.String("addr", opts.Addr),
			slog.String("error", lastErr.Error()),
		)

		if i == attempts-1 {
			break
		}
		if err := wait(ctx, time.Duration(i+1)*interval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
