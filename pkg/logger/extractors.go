package logger

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/lingua/pkg/i18n"
)

// Language adds the request-scoped translation language as "lang".
func Language() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		lang, ok := i18n.LanguageFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("lang", lang), true
	}
}

// FromContextValue adds the string stored in ctx under key as attribute name.
func FromContextValue(name string, key any) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		v, ok := ctx.Value(key).(string)
		if !ok || v == "" {
			return slog.Attr{}, false
		}
		return slog.String(name, v), true
	}
}
