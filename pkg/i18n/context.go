package i18n

import "context"

type languageKey struct{}

// WithLanguage returns a context carrying a request-scoped language.
// Store.Lang prefers it over the store's current language.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey{}, lang)
}

// LanguageFromContext returns the request-scoped language, if any.
func LanguageFromContext(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(languageKey{}).(string)
	return lang, ok && lang != ""
}
