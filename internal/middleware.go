package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/lingua/pkg/i18n"
	"github.com/dmitrymomot/lingua/pkg/logger"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	// LanguageParam is the query parameter and cookie name selecting the language.
	LanguageParam = "lang"

	stackSize = 4096
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// RequestIDFromContext returns the request id set by the request id middleware.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// RequestIDExtractor returns a ContextExtractor for use with logger.New.
// Automatically adds "request_id" to all log entries.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.FromContextValue("request_id", requestIDKey{})
}

// requestID keeps an upstream request id or generates a new one.
func (a *App) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, reqID)))
	})
}

// recoverer turns panics into 500 responses and logs them with the stack.
func (a *App) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			stack := make([]byte, stackSize)
			stack = stack[:runtime.Stack(stack, false)]

			a.logger.ErrorContext(r.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("stack", string(stack)),
			)
			a.handleError(w, r, fmt.Errorf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}

// requestLogger logs every completed request at debug level.
func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := NewResponseWriter(w)

		next.ServeHTTP(rw, r)

		a.logger.DebugContext(r.Context(), "request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rw.Status()),
			slog.Int64("size", rw.Size()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// language resolves the request language: ?lang, the lang cookie,
// Accept-Language, then the default language.
func (a *App) language(next http.Handler) http.Handler {
	ext := NewExtractor(
		Supported(FromQuery(LanguageParam), a.languages),
		Supported(FromCookie(LanguageParam), a.languages),
		FromAcceptLanguage(a.languages),
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang, ok := ext.Extract(r)
		if !ok {
			lang = a.defaultLang
		}

		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(i18n.WithLanguage(r.Context(), lang)))
	})
}
