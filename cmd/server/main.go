// Command server serves scoped translations over HTTP.
//
// Configuration is read from the environment or a .env file:
//
//	HTTP_ADDR              listen address (default :8080)
//	I18N_DEFAULT_LANGUAGE  default language (default ru)
//	I18N_LANGUAGES         supported languages (default ru,en)
//	I18N_SOURCE            embed, fs, http or s3 (default embed)
//	I18N_DIR               directory holding i18n/ for the fs source
//	I18N_BASE_URL          base URL for the http source
//	I18N_CACHE             fragment cache: none, memory or redis (default none)
//	I18N_CACHE_TTL         fragment cache TTL (default 10m)
//	I18N_STRICT_SCOPES     fail loads on overlapping scopes
//
// plus LOG_*, SENTRY_*, REDIS_* and S3_* (see pkg/logger, pkg/redis and
// pkg/storage).
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrymomot/lingua"
	"github.com/dmitrymomot/lingua/pkg/cache"
	"github.com/dmitrymomot/lingua/pkg/config"
	"github.com/dmitrymomot/lingua/pkg/i18n"
	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/redis"
	"github.com/dmitrymomot/lingua/pkg/storage"
)

//go:embed i18n
var fragments embed.FS

// Fragment sources.
const (
	sourceEmbed = "embed"
	sourceFS    = "fs"
	sourceHTTP  = "http"
	sourceS3    = "s3"
)

// Fragment caches.
const (
	cacheNone   = "none"
	cacheMemory = "memory"
	cacheRedis  = "redis"
)

var errInvalidConfig = errors.New("invalid configuration")

// Config is the server configuration.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	I18n            I18nConfig
	Log             logger.Config
	Redis           redis.Config
	Storage         storage.Config
}

// I18nConfig selects the fragment source and cache.
type I18nConfig struct {
	DefaultLanguage string        `env:"I18N_DEFAULT_LANGUAGE" envDefault:"ru"`
	Languages       []string      `env:"I18N_LANGUAGES" envDefault:"ru,en" envSeparator:","`
	Source          string        `env:"I18N_SOURCE" envDefault:"embed"`
	Dir             string        `env:"I18N_DIR" envDefault:"."`
	BaseURL         string        `env:"I18N_BASE_URL"`
	Cache           string        `env:"I18N_CACHE" envDefault:"none"`
	CacheTTL        time.Duration `env:"I18N_CACHE_TTL" envDefault:"10m"`
	Strict          bool          `env:"I18N_STRICT_SCOPES"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(cfg.Log, lingua.RequestIDExtractor(), logger.Language())

	fetcher, static, err := newSource(cfg)
	if err != nil {
		return err
	}

	opts := []lingua.Option{
		lingua.WithLogger(log),
		lingua.WithLanguages(cfg.I18n.DefaultLanguage, cfg.I18n.Languages...),
	}
	runOpts := []lingua.RunOption{
		lingua.Logger(log),
		lingua.ShutdownTimeout(cfg.ShutdownTimeout),
	}
	var checks []lingua.HealthOption

	if static != nil {
		opts = append(opts, lingua.WithStaticFragments(static))
	}
	if cfg.I18n.Strict {
		opts = append(opts, lingua.WithStrictScopes())
	}

	switch cfg.I18n.Cache {
	case cacheNone, "":
	case cacheMemory:
		c := cache.NewMemory(cache.WithDefaultTTL(cfg.I18n.CacheTTL))
		fetcher = i18n.NewCachingFetcher(fetcher, c, cfg.I18n.CacheTTL)
		opts = append(opts, lingua.WithFragmentCache(c))
		runOpts = append(runOpts, lingua.ShutdownHook(closer(c)))
	case cacheRedis:
		client, err := redis.OpenConfig(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		c := cache.NewRedis(client, cache.WithRedisDefaultTTL(cfg.I18n.CacheTTL))
		fetcher = i18n.NewCachingFetcher(fetcher, c, cfg.I18n.CacheTTL)
		opts = append(opts, lingua.WithFragmentCache(c))
		checks = append(checks, lingua.WithReadinessCheck("redis", redis.Healthcheck(client)))
		runOpts = append(runOpts, lingua.ShutdownHook(redis.Shutdown(client)))
	default:
		return fmt.Errorf("%w: I18N_CACHE=%q", errInvalidConfig, cfg.I18n.Cache)
	}

	opts = append(opts, lingua.WithHealthChecks(checks...))
	runOpts = append(runOpts, lingua.ShutdownHook(logger.Flush(2*time.Second)))

	app := lingua.New(fetcher, opts...)

	log.Info("starting translation server",
		slog.String("source", cfg.I18n.Source),
		slog.String("cache", cfg.I18n.Cache),
		slog.Any("languages", app.Languages()),
	)

	return app.Run(cfg.Addr, runOpts...)
}

// newSource builds the fragment fetcher. The returned fs.FS is non-nil when the
// fragment files can be served as they are.
func newSource(cfg Config) (i18n.Fetcher, fs.FS, error) {
	switch cfg.I18n.Source {
	case sourceEmbed:
		return i18n.NewFSFetcher(fragments), fragments, nil
	case sourceFS:
		dir, err := filepath.Abs(cfg.I18n.Dir)
		if err != nil {
			return nil, nil, err
		}
		fsys := os.DirFS(dir)
		return i18n.NewFSFetcher(fsys), fsys, nil
	case sourceHTTP:
		if cfg.I18n.BaseURL == "" {
			return nil, nil, fmt.Errorf("%w: I18N_BASE_URL is required for the http source", errInvalidConfig)
		}
		return i18n.NewHTTPFetcher(cfg.I18n.BaseURL), nil, nil
	case sourceS3:
		store, err := storage.New(cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		return i18n.NewObjectFetcher(store, store.Prefix()), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: I18N_SOURCE=%q", errInvalidConfig, cfg.I18n.Source)
	}
}

func closer(c interface{ Close() error }) func(context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}
