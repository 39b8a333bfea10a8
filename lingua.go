package lingua

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/lingua/internal"
	"github.com/dmitrymomot/lingua/pkg/health"
	"github.com/dmitrymomot/lingua/pkg/i18n"
	"github.com/dmitrymomot/lingua/pkg/logger"
)

// Type aliases - public API
type (
	// App serves translations of a set of modules over HTTP.
	App = internal.App

	// Module is a named set of translation scopes loaded together.
	Module = internal.Module

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// HTTPError represents an HTTP error with all data needed for rendering.
	HTTPError = internal.HTTPError

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// CacheClearer is a fragment cache that can be emptied on reload.
	CacheClearer = internal.CacheClearer

	// ContextExtractor extracts a slog attribute from context.
	// Used with logger.New to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// ResponseWriter records the status code and size of a response.
	ResponseWriter = internal.ResponseWriter

	// Extractor tries multiple sources in order and returns the first match.
	Extractor = internal.Extractor

	// ExtractorSource extracts a value from the request.
	ExtractorSource = internal.ExtractorSource
)

// RootModule is the name of the module holding the root fragment.
const RootModule = internal.RootModule

// Constructors

// New creates an application loading fragments with fetcher.
// Without WithModules the application serves DefaultModules.
//
// Example:
//
//	app := lingua.New(i18n.NewHTTPFetcher("https://cdn.example.com"),
//	    lingua.WithLanguages("ru", "en"),
//	    lingua.WithLogger(log),
//	)
//
//	err := app.Run(":8080", lingua.Logger(log))
func New(fetcher i18n.Fetcher, opts ...Option) *App {
	return internal.New(fetcher, opts...)
}

// Root returns the root module. The root fragment is always part of it.
func Root(scopes ...string) Module {
	return internal.Root(scopes...)
}

// Feature returns a lazily loaded module.
func Feature(name string, scopes ...string) Module {
	return internal.Feature(name, scopes...)
}

// DefaultModules returns the root module and the admin and home features.
func DefaultModules() []Module {
	return internal.DefaultModules()
}

// App options

// WithModules replaces the default modules.
func WithModules(modules ...Module) Option {
	return internal.WithModules(modules...)
}

// WithLanguages sets the default language and the supported languages.
func WithLanguages(defaultLang string, supported ...string) Option {
	return internal.WithLanguages(defaultLang, supported...)
}

// WithFragmentCache registers the fragment cache emptied on reload.
func WithFragmentCache(c CacheClearer) Option {
	return internal.WithFragmentCache(c)
}

// WithStrictScopes makes module loads fail when scopes overlap.
func WithStrictScopes() Option {
	return internal.WithStrictScopes()
}

// WithStaticFragments serves the fragment files under GET /i18n/*.
//
// Example:
//
//	//go:embed i18n
//	var fragments embed.FS
//
//	lingua.New(i18n.NewFSFetcher(fragments),
//	    lingua.WithStaticFragments(fragments),
//	)
func WithStaticFragments(fsys fs.FS) Option {
	return internal.WithStaticFragments(fsys)
}

// WithMiddleware adds global middleware to the application.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithMiddleware(mw...)
}

// WithHealthChecks configures the health check endpoints.
//
// Example:
//
//	lingua.WithHealthChecks(
//	    lingua.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// Health options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the HTTP server address.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the server starts listening.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
//
// Example:
//
//	lingua.ShutdownHook(redis.Shutdown(client))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Request helpers

// RequestIDFromContext returns the request id of the current request.
func RequestIDFromContext(ctx context.Context) string {
	return internal.RequestIDFromContext(ctx)
}

// RequestIDExtractor adds "request_id" to every log entry of a request.
func RequestIDExtractor() ContextExtractor {
	return internal.RequestIDExtractor()
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader returns a source that reads from a request header.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery returns a source that reads from a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromCookie returns a source that reads from a plain cookie.
func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

// FromAcceptLanguage returns a source matching Accept-Language against supported.
func FromAcceptLanguage(supported []string) ExtractorSource {
	return internal.FromAcceptLanguage(supported)
}

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}
