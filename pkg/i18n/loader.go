package i18n

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// TranslationLoader produces the translation tree for one language.
type TranslationLoader interface {
	GetTranslation(ctx context.Context, lang string) (Tree, error)
}

// Loader fetches the fragments of a fixed set of scopes and merges them into
// one tree. Fragments already fetched by any loader sharing the same LoadState
// are skipped.
type Loader struct {
	fetcher Fetcher
	state   *LoadState
	logger  *slog.Logger
	held    map[string]map[string]Tree // lang -> scope -> fetched but not yet returned
	scopes  []string
	strict  bool
	mu      sync.Mutex
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger for fetch failures and scope overlaps.
func WithLoaderLogger(l *slog.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithStrictScopes makes GetTranslation fail with ErrScopeOverlap when a scope
// would overwrite translations contributed by a shorter scope.
// By default the overwrite happens and a warning is logged.
func WithStrictScopes() LoaderOption {
	return func(ld *Loader) {
		ld.strict = true
	}
}

// NewLoader creates a loader for scopes. The scopes are ordered by ascending
// length, keeping the given order for equal lengths, so general scopes are
// merged before the nested ones that refine them.
//
// Example:
//
//	state := i18n.NewLoadState()
//	home := i18n.NewLoader(fetcher, state, []string{"HOME", "HOME.COMMON"})
//	admin := i18n.NewLoader(fetcher, state, []string{"ADMIN", "HOME.COMMON"})
func NewLoader(fetcher Fetcher, state *LoadState, scopes []string, opts ...LoaderOption) *Loader {
	if fetcher == nil {
		panic("i18n: fetcher is not provided")
	}
	if state == nil {
		state = NewLoadState()
	}

	sorted := slices.Clone(scopes)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return len(a) - len(b)
	})

	l := &Loader{
		fetcher: fetcher,
		state:   state,
		scopes:  sorted,
		held:    make(map[string]map[string]Tree),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Scopes returns the loader's scopes in merge order.
func (l *Loader) Scopes() []string {
	return slices.Clone(l.scopes)
}

// State returns the shared load state.
func (l *Loader) State() *LoadState {
	return l.state
}

// GetTranslation fetches every scope not yet loaded for lang and returns the
// merged tree. When nothing is left to fetch the tree is empty; callers are
// expected to hold previously merged translations already.
//
// Fetches run concurrently and the merge starts once all of them completed.
// Each successful fetch marks its scope as loaded right away, so it is never
// requested again. A failed fetch, or an overlap in strict mode, fails the
// whole call; fragments fetched by the failed call are held by the loader and
// merged into the result of its next call.
func (l *Loader) GetTranslation(ctx context.Context, lang string) (Tree, error) {
	if lang == "" {
		return nil, ErrEmptyLanguage
	}

	pending := l.state.Pending(lang, l.scopes)
	fragments := l.takeHeld(lang)
	for _, scope := range pending {
		delete(fragments, scope)
	}
	if len(pending) == 0 && len(fragments) == 0 {
		return Tree{}, nil
	}

	fetched := make([]Tree, len(pending))
	ok := make([]bool, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	for i, scope := range pending {
		g.Go(func() error {
			tree, err := l.fetcher.Fetch(gctx, lang, scope)
			if err != nil {
				return fmt.Errorf("loading scope %q for %q: %w", scope, lang, err)
			}
			l.state.MarkLoaded(lang, scope)
			fetched[i], ok[i] = tree, true
			return nil
		})
	}
	err := g.Wait()
	for i, scope := range pending {
		if ok[i] {
			fragments[scope] = fetched[i]
		}
	}
	if err != nil {
		l.hold(lang, fragments)
		l.logger.ErrorContext(ctx, "failed to load translations",
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	result := Tree{}
	for _, scope := range l.scopes {
		fragment, found := fragments[scope]
		if !found {
			continue
		}
		if scope != "" && overlaps(result, strings.Split(scope, ".")) {
			if l.strict {
				l.hold(lang, fragments)
				return nil, fmt.Errorf("%w: %q for %q", ErrScopeOverlap, scope, lang)
			}
			l.logger.WarnContext(ctx, "translation scope overwrites existing keys",
				slog.String("lang", lang),
				slog.String("scope", scope),
			)
		}
		result = MergeScope(scope, result, fragment)
	}

	l.logger.DebugContext(ctx, "translations loaded",
		slog.String("lang", lang),
		slog.Any("scopes", pending),
	)

	return result, nil
}

// Close clears the shared load state so the next GetTranslation call of any
// loader fetches its fragments again.
func (l *Loader) Close() error {
	l.mu.Lock()
	clear(l.held)
	l.mu.Unlock()

	l.state.Clear()
	return nil
}

func (l *Loader) takeHeld(lang string) map[string]Tree {
	l.mu.Lock()
	defer l.mu.Unlock()

	fragments := l.held[lang]
	delete(l.held, lang)
	if fragments == nil {
		fragments = make(map[string]Tree)
	}
	return fragments
}

func (l *Loader) hold(lang string, fragments map[string]Tree) {
	if len(fragments) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	held := l.held[lang]
	if held == nil {
		held = make(map[string]Tree, len(fragments))
		l.held[lang] = held
	}
	for scope, tree := range fragments {
		held[scope] = tree
	}
}

var _ TranslationLoader = (*Loader)(nil)
