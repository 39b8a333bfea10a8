package i18n

import (
	"context"
	"maps"
)

// Translator is a module's entry point to translations: it shares the
// application Store and owns the module's loader and missing handler.
type Translator struct {
	store   *Store
	loader  TranslationLoader
	missing MissingTranslationHandler
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithMissingTranslationHandler sets the handler invoked for unresolved keys.
// Default: KeyFallback.
func WithMissingTranslationHandler(h MissingTranslationHandler) TranslatorOption {
	return func(t *Translator) {
		if h != nil {
			t.missing = h
		}
	}
}

// NewTranslator creates a Translator on top of store. loader may be nil for
// modules that rely on translations registered by others.
func NewTranslator(store *Store, loader TranslationLoader, opts ...TranslatorOption) *Translator {
	if store == nil {
		panic("i18n: store is not provided")
	}
	t := &Translator{
		store:   store,
		loader:  loader,
		missing: KeyFallback{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Use loads the module's translations for lang, registers them and makes
// lang the store's current language.
func (t *Translator) Use(ctx context.Context, lang string) error {
	if lang == "" {
		return ErrEmptyLanguage
	}
	if err := t.Load(ctx, lang); err != nil {
		return err
	}
	t.store.Use(lang)
	return nil
}

// Load fetches and registers the module's translations for lang without
// switching the current language.
func (t *Translator) Load(ctx context.Context, lang string) error {
	if t.loader == nil {
		return nil
	}
	tree, err := t.loader.GetTranslation(ctx, lang)
	if err != nil {
		return err
	}
	t.store.SetTranslation(lang, tree, true)
	return nil
}

// T translates key in the effective language of ctx. Keys missing from the
// registered translations are passed to the missing handler; the key itself
// is returned when nothing better is available.
func (t *Translator) T(ctx context.Context, key string, params ...M) string {
	merged := mergeParams(params)
	lang := t.store.Lang(ctx)

	if s, err := Render(t.store.Parser(), t.store.Translations(lang), key, merged); err == nil {
		return s
	}

	return t.missing.Handle(ctx, MissingParams{
		Service: t.store,
		Params:  merged,
		Key:     key,
	})
}

// Store returns the shared store.
func (t *Translator) Store() *Store {
	return t.store
}

// Lang returns the effective language for ctx.
func (t *Translator) Lang(ctx context.Context) string {
	return t.store.Lang(ctx)
}

func mergeParams(params []M) M {
	switch len(params) {
	case 0:
		return nil
	case 1:
		return params[0]
	}
	merged := make(M)
	for _, p := range params {
		maps.Copy(merged, p)
	}
	return merged
}
