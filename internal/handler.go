package internal

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/lingua/pkg/i18n"
)

// paramPrefix marks query values passed as interpolation parameters.
const paramPrefix = "p."

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error renders it as a JSON error response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// translationResponse is returned by GET /{module}/t/{key}.
type translationResponse struct {
	Key   string `json:"key"`
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

// errorResponse is the body of every error response.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// translate resolves a single key in the request language. Missing keys
// trigger the module's lazy load; keys that stay unresolved are echoed back.
func (a *App) translate(w http.ResponseWriter, r *http.Request) error {
	m, err := a.module(r)
	if err != nil {
		return err
	}

	ctx := r.Context()
	key := chi.URLParam(r, "key")

	return writeJSON(w, http.StatusOK, translationResponse{
		Key:   key,
		Lang:  m.translator.Lang(ctx),
		Value: m.translator.T(ctx, key, queryParams(r)),
	})
}

// translations loads the module for the request language and returns
// everything registered for that language so far.
func (a *App) translations(w http.ResponseWriter, r *http.Request) error {
	m, err := a.module(r)
	if err != nil {
		return err
	}

	ctx := r.Context()
	lang := m.translator.Lang(ctx)
	if err := m.translator.Load(ctx, lang); err != nil {
		return &HTTPError{
			Err:     err,
			Code:    http.StatusBadGateway,
			Message: "translations are unavailable",
		}
	}

	return writeJSON(w, http.StatusOK, a.store.Translations(lang))
}

func (a *App) reload(w http.ResponseWriter, r *http.Request) error {
	if err := a.Reload(r.Context()); err != nil {
		return &HTTPError{
			Err:     err,
			Code:    http.StatusBadGateway,
			Message: "translations reload failed",
		}
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *App) module(r *http.Request) (*module, error) {
	m, ok := a.modules[chi.URLParam(r, "module")]
	if !ok {
		return nil, ErrUnknownModule
	}
	return m, nil
}

// wrap converts a HandlerFunc to http.HandlerFunc using the app's error handling.
func (a *App) wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			a.handleError(w, r, err)
		}
	}
}

// handleError renders err as JSON. Server errors are logged with the
// underlying cause.
func (a *App) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if rw, ok := w.(*ResponseWriter); ok && rw.Written() {
		return
	}

	httpErr := AsHTTPError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", httpErr.Code),
			slog.Any("error", err),
		)
	}

	_ = writeJSON(w, httpErr.Code, errorResponse{
		Error:     httpErr.Message,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// queryParams collects "p."-prefixed query values into interpolation
// parameters. Dots in the remaining name build nested parameters:
// ?p.user.name=Ivan yields {"user": {"name": "Ivan"}}.
func queryParams(r *http.Request) i18n.M {
	query := r.URL.Query()

	names := make([]string, 0, len(query))
	for name := range query {
		if strings.HasPrefix(name, paramPrefix) && len(name) > len(paramPrefix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)

	params := i18n.M{}
	for _, name := range names {
		path := strings.Split(strings.TrimPrefix(name, paramPrefix), ".")
		params = i18n.SetPath(params, path, query.Get(name))
	}
	return params
}

// staticHandler serves fragment files from fsys.
// Directory listings are disabled. Files are served with default cache headers.
func staticHandler(fsys fs.FS) http.HandlerFunc {
	fileServer := http.FileServerFS(fsys)

	return func(w http.ResponseWriter, r *http.Request) {
		// Block directory listings
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		fileServer.ServeHTTP(w, r)
	}
}
