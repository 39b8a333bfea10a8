package i18n_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/lingua/pkg/i18n"
)

// fakeFetcher serves fragments from memory and counts requests per fragment.
type fakeFetcher struct {
	fragments map[string]i18n.Tree // "lang/scope" -> fragment
	failing   map[string]error
	requests  map[string]int
	gate      chan struct{}
	mu        sync.Mutex
}

func newFakeFetcher(fragments map[string]i18n.Tree) *fakeFetcher {
	return &fakeFetcher{
		fragments: fragments,
		failing:   make(map[string]error),
		requests:  make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, lang, scope string) (i18n.Tree, error) {
	key := lang + "/" + scope

	f.mu.Lock()
	f.requests[key]++
	gate := f.gate
	err := f.failing[key]
	fragment, ok := f.fragments[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", i18n.ErrFetchFailed, key)
	}
	return fragment, nil
}

func (f *fakeFetcher) fail(lang, scope string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[lang+"/"+scope] = err
}

func (f *fakeFetcher) heal(lang, scope string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failing, lang+"/"+scope)
}

func (f *fakeFetcher) count(lang, scope string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[lang+"/"+scope]
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.requests {
		n += c
	}
	return n
}

// ruFragments mirrors the layout produced by splitting a joined catalog.
func ruFragments() map[string]i18n.Tree {
	return map[string]i18n.Tree{
		"ru/":      {"GREETING": "Привет"},
		"ru/ADMIN": {"ADMIN": i18n.Tree{"TITLE": "Админ"}},
		"ru/HOME": {"HOME": i18n.Tree{
			"TITLE":  "Главная",
			"COMMON": i18n.Tree{"OK": "устаревшее"},
		}},
		"ru/HOME.COMMON": {"HOME": i18n.Tree{"COMMON": i18n.Tree{
			"OK":    "Ок",
			"HELLO": "Привет, {{name}}",
		}}},
		"en/":      {"GREETING": "Hello"},
		"en/ADMIN": {"ADMIN": i18n.Tree{"TITLE": "Admin"}},
	}
}
