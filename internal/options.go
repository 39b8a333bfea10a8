package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
)

// Option configures the application.
type Option func(*App)

// WithModules replaces the default modules.
// At most one module named RootModule is preloaded; later definitions
// with an already used name replace earlier ones.
//
// Example:
//
//	internal.New(fetcher,
//	    internal.WithModules(
//	        internal.Root(),
//	        internal.Feature("admin", "ADMIN", "HOME.COMMON"),
//	    ),
//	)
func WithModules(modules ...Module) Option {
	return func(a *App) {
		a.defs = append(a.defs, modules...)
	}
}

// WithLanguages sets the default language and the supported languages.
// The default language is always supported and listed first.
func WithLanguages(defaultLang string, supported ...string) Option {
	return func(a *App) {
		if defaultLang == "" {
			return
		}
		a.defaultLang = defaultLang
		langs := []string{defaultLang}
		for _, lang := range supported {
			if lang != "" && !slices.Contains(langs, lang) {
				langs = append(langs, lang)
			}
		}
		a.languages = langs
	}
}

// WithFragmentCache registers the fragment cache emptied on reload.
// The cache itself is wired into the fetcher, e.g. with i18n.NewCachingFetcher.
func WithFragmentCache(c CacheClearer) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithStrictScopes makes module loads fail when a scope overwrites
// translations of a shorter scope instead of logging a warning.
func WithStrictScopes() Option {
	return func(a *App) {
		a.strict = true
	}
}

// WithStaticFragments serves the fragment files under GET /i18n/*.
// fsys must contain the "i18n" directory, e.g. an embed.FS or os.DirFS
// of its parent. Directory listings are disabled.
//
// Example:
//
//	//go:embed i18n
//	var fragments embed.FS
//
//	internal.New(i18n.NewFSFetcher(fragments),
//	    internal.WithStaticFragments(fragments),
//	)
func WithStaticFragments(fsys fs.FS) Option {
	return func(a *App) {
		a.static = fsys
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided, after the built-in
// request id, request logging and recover middleware.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHealthChecks configures the health check endpoints.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	internal.WithHealthChecks(
//	    internal.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := newHealthConfig()
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger sets the application logger.
//
// Example:
//
//	internal.New(fetcher,
//	    internal.WithLogger(logger.New(cfg, internal.RequestIDExtractor(), logger.Language())),
//	)
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}
