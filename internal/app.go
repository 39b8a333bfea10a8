package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/lingua/pkg/health"
	"github.com/dmitrymomot/lingua/pkg/i18n"
	"github.com/dmitrymomot/lingua/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "en"

// CacheClearer is a fragment cache that can be emptied on reload.
type CacheClearer interface {
	Clear(ctx context.Context) error
}

// App serves translations of a set of modules over HTTP.
// All modules share one Store and one LoadState.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router       chi.Router
	fetcher      i18n.Fetcher
	cache        CacheClearer
	static       fs.FS
	store        *i18n.Store
	state        *i18n.LoadState
	logger       *slog.Logger
	healthConfig *healthConfig
	modules      map[string]*module
	defs         []Module
	languages    []string
	middlewares  []func(http.Handler) http.Handler
	defaultLang  string
	strict       bool
}

// New creates an application loading fragments with fetcher.
// Without WithModules the application serves DefaultModules.
//
// Example:
//
//	app := internal.New(i18n.NewHTTPFetcher("https://cdn.example.com"),
//	    internal.WithLanguages("ru", "ru", "en"),
//	    internal.WithLogger(log),
//	)
func New(fetcher i18n.Fetcher, opts ...Option) *App {
	if fetcher == nil {
		panic("lingua: fetcher is not provided")
	}

	a := &App{
		router:      chi.NewRouter(),
		fetcher:     fetcher,
		state:       i18n.NewLoadState(),
		logger:      logger.NewNope(),
		defaultLang: DefaultLanguage,
	}

	for _, opt := range opts {
		opt(a)
	}

	if len(a.defs) == 0 {
		a.defs = DefaultModules()
	}
	if len(a.languages) == 0 {
		a.languages = []string{a.defaultLang}
	}

	a.store = i18n.NewStore(i18n.WithDefaultLanguage(a.defaultLang))
	a.modules = make(map[string]*module, len(a.defs))
	for _, def := range a.defs {
		a.modules[def.Name] = a.newModule(def)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router for the App.
func (a *App) Router() chi.Router {
	return a.router
}

// Store returns the translation store shared by all modules.
func (a *App) Store() *i18n.Store {
	return a.store
}

// Languages returns the supported languages, default first.
func (a *App) Languages() []string {
	return a.languages
}

// Translator returns the translator of the named module.
func (a *App) Translator(name string) (*i18n.Translator, bool) {
	m, ok := a.modules[name]
	if !ok {
		return nil, false
	}
	return m.translator, true
}

// Preload loads the root module for the default language and makes it the
// current language. Feature modules stay lazy.
func (a *App) Preload(ctx context.Context) error {
	root, ok := a.modules[RootModule]
	if !ok {
		a.store.Use(a.defaultLang)
		return nil
	}
	if err := root.translator.Use(ctx, a.defaultLang); err != nil {
		return fmt.Errorf("preloading %q translations: %w", a.defaultLang, err)
	}
	return nil
}

// Reload drops every loaded translation: the shared load state, the
// fragment cache, the store and the in-flight loads of all modules.
// The root module is preloaded again afterwards.
//
// The load state is cleared last: a load finishing during the reset may
// leave its tree in the store, but never a marked scope without its tree.
func (a *App) Reload(ctx context.Context) error {
	var errs []error
	if a.cache != nil {
		if err := a.cache.Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clearing fragment cache: %w", err))
		}
	}

	a.store.Reset()
	for _, m := range a.modules {
		m.handler.Reset()
	}
	a.state.Clear()

	if err := a.Preload(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		a.logger.ErrorContext(ctx, "translations reload failed", slog.Any("error", err))
		return err
	}

	a.logger.InfoContext(ctx, "translations reloaded")
	return nil
}

// Run starts the HTTP server and blocks until shutdown.
// The root module is preloaded before the server accepts requests.
//
// Example:
//
//	err := app.Run(":8080", internal.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if addr != "" {
		cfg.address = addr
	}

	startupHooks := append([]func(context.Context) error{a.Preload}, cfg.startupHooks...)

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes configures the router with middleware and handlers.
func (a *App) setupRoutes() {
	a.router.Use(a.requestID, a.requestLogger, a.recoverer)
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}

	a.router.NotFound(a.wrap(func(w http.ResponseWriter, r *http.Request) error {
		return ErrNotFound
	}))
	a.router.MethodNotAllowed(a.wrap(func(w http.ResponseWriter, r *http.Request) error {
		return ErrMethodNotAllowed
	}))

	hc := a.healthConfig
	if hc == nil {
		hc = newHealthConfig()
	}
	checks := make(health.Checks, len(hc.checks)+1)
	checks["fragments"] = health.FragmentSource(a.fetcher, a.defaultLang)
	for name, fn := range hc.checks {
		checks[name] = fn
	}
	a.router.Get(hc.livenessPath, health.LivenessHandler())
	a.router.Get(hc.readinessPath, health.ReadinessHandler(checks, health.WithLogger(a.logger)))

	a.router.Post("/i18n/reload", a.wrap(a.reload))
	if a.static != nil {
		a.router.Get("/i18n/*", staticHandler(a.static))
	}

	a.router.Group(func(r chi.Router) {
		r.Use(a.language)
		r.Get("/{module}/t/{key}", a.wrap(a.translate))
		r.Get("/{module}/translations", a.wrap(a.translations))
	})
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

func newHealthConfig() *healthConfig {
	return &healthConfig{
		livenessPath:  defaultLivenessPath,
		readinessPath: defaultReadinessPath,
	}
}

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe. The "fragments" check,
// fetching the root fragment of the default language, is always present.
//
// Example:
//
//	internal.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
