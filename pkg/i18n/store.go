package i18n

import (
	"context"
	"slices"
	"sync"
)

// Service is the view of the translation store the missing handler works with.
type Service interface {
	// Lang returns the effective language for ctx.
	Lang(ctx context.Context) string

	// SetTranslation registers tree for lang, merging it into the existing
	// translations when merge is true and replacing them otherwise.
	SetTranslation(lang string, tree Tree, merge bool)

	// Translations returns the registered tree for lang.
	Translations(lang string) Tree

	// Parser returns the key lookup and interpolation parser.
	Parser() Parser
}

// Store holds the merged translations of every language. One Store is shared
// by all modules of an application. It is safe for concurrent use.
type Store struct {
	parser       Parser
	translations map[string]Tree
	currentLang  string
	defaultLang  string
	mu           sync.RWMutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDefaultLanguage sets the language used when no current language is set.
func WithDefaultLanguage(lang string) StoreOption {
	return func(s *Store) {
		s.defaultLang = lang
	}
}

// WithParser replaces DefaultParser.
func WithParser(p Parser) StoreOption {
	return func(s *Store) {
		if p != nil {
			s.parser = p
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		parser:       DefaultParser{},
		translations: make(map[string]Tree),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTranslation implements Service. Registered trees are never mutated;
// merging builds new nodes along every merged path.
func (s *Store) SetTranslation(lang string, tree Tree, merge bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if merge {
		if existing, ok := s.translations[lang]; ok {
			s.translations[lang] = mergeDeep(existing, tree)
			return
		}
	}
	s.translations[lang] = cloneTree(tree)
}

// Translations implements Service. It returns nil for unknown languages.
func (s *Store) Translations(lang string) Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.translations[lang]
}

// Languages returns the languages that have registered translations, sorted.
func (s *Store) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	langs := make([]string, 0, len(s.translations))
	for lang := range s.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Use switches the current language.
func (s *Store) Use(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentLang = lang
}

// CurrentLang returns the current language, which may be empty.
func (s *Store) CurrentLang() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLang
}

// SetDefaultLang sets the fallback language.
func (s *Store) SetDefaultLang(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultLang = lang
}

// DefaultLang returns the fallback language.
func (s *Store) DefaultLang() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultLang
}

// Lang implements Service: the language stored in ctx, else the current
// language, else the default one.
func (s *Store) Lang(ctx context.Context) string {
	if lang, ok := LanguageFromContext(ctx); ok {
		return lang
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentLang != "" {
		return s.currentLang
	}
	return s.defaultLang
}

// Parser implements Service.
func (s *Store) Parser() Parser {
	return s.parser
}

// Reset drops all registered translations. Current and default languages are kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translations = make(map[string]Tree)
}

var _ Service = (*Store)(nil)
