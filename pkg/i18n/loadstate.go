package i18n

import "sync"

// LoadState records which (language, scope) fragments were already fetched.
// One LoadState is shared by reference between all loaders of an application,
// so a fragment fetched for one module is never fetched again for another.
// It is safe for concurrent use.
type LoadState struct {
	loaded map[string]map[string]bool
	mu     sync.RWMutex
}

// NewLoadState returns an empty load state.
func NewLoadState() *LoadState {
	return &LoadState{loaded: make(map[string]map[string]bool)}
}

// IsLoaded reports whether scope was fetched for lang.
func (s *LoadState) IsLoaded(lang, scope string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded[lang][scope]
}

// MarkLoaded flags the given scopes as fetched for lang.
func (s *LoadState) MarkLoaded(lang string, scopes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byScope, ok := s.loaded[lang]
	if !ok {
		byScope = make(map[string]bool, len(scopes))
		s.loaded[lang] = byScope
	}
	for _, scope := range scopes {
		byScope[scope] = true
	}
}

// Pending returns the scopes not yet fetched for lang, preserving order.
func (s *LoadState) Pending(lang string, scopes []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		if !s.loaded[lang][scope] {
			pending = append(pending, scope)
		}
	}
	return pending
}

// Languages returns the languages with at least one fetched scope.
func (s *LoadState) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	langs := make([]string, 0, len(s.loaded))
	for lang := range s.loaded {
		langs = append(langs, lang)
	}
	return langs
}

// Clear forgets every fetched fragment for all languages.
func (s *LoadState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = make(map[string]map[string]bool)
}
