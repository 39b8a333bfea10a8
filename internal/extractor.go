package internal

import (
	"net/http"
	"slices"

	"github.com/dmitrymomot/lingua/pkg/i18n"
)

// ExtractorSource extracts a value from the request.
// Returns the value and true if found, or ("", false) if not present.
type ExtractorSource = func(*http.Request) (string, bool)

// Extractor tries multiple sources in order and returns the first match.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract iterates sources in order and returns the first non-empty value.
// Returns ("", false) if all sources miss.
func (e Extractor) Extract(r *http.Request) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(r); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FromHeader returns a source that reads from a request header.
func FromHeader(name string) ExtractorSource {
	return func(r *http.Request) (string, bool) {
		v := r.Header.Get(name)
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// FromQuery returns a source that reads from a query parameter.
func FromQuery(name string) ExtractorSource {
	return func(r *http.Request) (string, bool) {
		v := r.URL.Query().Get(name)
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// FromCookie returns a source that reads from a plain cookie.
func FromCookie(name string) ExtractorSource {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", false
		}
		return c.Value, true
	}
}

// FromAcceptLanguage returns a source that matches the Accept-Language
// header against the supported languages.
func FromAcceptLanguage(supported []string) ExtractorSource {
	return func(r *http.Request) (string, bool) {
		header := r.Header.Get("Accept-Language")
		if header == "" {
			return "", false
		}
		lang := i18n.MatchLanguage(header, supported)
		return lang, lang != ""
	}
}

// Supported wraps src to accept only values listed in supported.
func Supported(src ExtractorSource, supported []string) ExtractorSource {
	return func(r *http.Request) (string, bool) {
		v, ok := src(r)
		if !ok || !slices.Contains(supported, v) {
			return "", false
		}
		return v, true
	}
}
