package i18n

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// MissingParams describes a key that was not found in the loaded translations.
type MissingParams struct {
	Service Service
	Params  M
	Key     string
}

// MissingTranslationHandler resolves keys absent from the loaded translations.
type MissingTranslationHandler interface {
	Handle(ctx context.Context, params MissingParams) string
}

// KeyFallback is a MissingTranslationHandler that returns the key itself.
type KeyFallback struct{}

// Handle implements MissingTranslationHandler.
func (KeyFallback) Handle(_ context.Context, params MissingParams) string {
	return params.Key
}

// loadCall is the one-shot load-and-register computation of a language.
// done is closed once tree or err is set.
type loadCall struct {
	done chan struct{}
	tree Tree
	err  error
}

// MissingHandler loads translations on demand when a key is missing.
//
// The first miss for a language loads the language through the loader and
// registers the result in the service with merging enabled. Every miss for
// that language, concurrent or later, waits for and reuses that single result,
// so a page asking for dozens of untranslated keys triggers one load.
// Failed loads are forgotten and retried by the next miss.
type MissingHandler struct {
	loader TranslationLoader
	logger *slog.Logger
	calls  map[string]*loadCall
	mu     sync.Mutex
}

// HandlerOption configures a MissingHandler.
type HandlerOption func(*MissingHandler)

// WithHandlerLogger sets the logger for load failures.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *MissingHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewMissingHandler creates a handler that loads translations with loader.
func NewMissingHandler(loader TranslationLoader, opts ...HandlerOption) *MissingHandler {
	if loader == nil {
		panic("i18n: loader is not provided")
	}
	h := &MissingHandler{
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		calls:  make(map[string]*loadCall),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle implements MissingTranslationHandler. It never fails: when the key
// cannot be resolved and rendered, the key itself is returned.
func (h *MissingHandler) Handle(ctx context.Context, p MissingParams) string {
	if p.Service == nil {
		return p.Key
	}

	lang := p.Service.Lang(ctx)
	if lang == "" {
		return p.Key
	}

	call := h.load(ctx, lang, p.Service)

	select {
	case <-call.done:
	case <-ctx.Done():
		return p.Key
	}

	if call.err != nil {
		return p.Key
	}

	result, err := Render(p.Service.Parser(), call.tree, p.Key, p.Params)
	if err != nil {
		h.logger.DebugContext(ctx, "translation unavailable",
			slog.String("lang", lang),
			slog.String("key", p.Key),
			slog.String("error", err.Error()),
		)
		return p.Key
	}

	return result
}

// Loaded reports whether translations for lang were loaded and registered.
func (h *MissingHandler) Loaded(lang string) bool {
	h.mu.Lock()
	call, ok := h.calls[lang]
	h.mu.Unlock()
	if !ok {
		return false
	}

	select {
	case <-call.done:
		return call.err == nil
	default:
		return false
	}
}

// Reset forgets every loaded language, so the next miss loads again.
// Loads in progress complete but are no longer shared with later misses.
func (h *MissingHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = make(map[string]*loadCall)
}

// load returns the call for lang, starting it if needed. The load runs
// detached from ctx cancellation: once started it completes for all waiters.
func (h *MissingHandler) load(ctx context.Context, lang string, svc Service) *loadCall {
	h.mu.Lock()
	defer h.mu.Unlock()

	if call, ok := h.calls[lang]; ok {
		return call
	}

	call := &loadCall{done: make(chan struct{})}
	h.calls[lang] = call

	go h.run(context.WithoutCancel(ctx), lang, svc, call)

	return call
}

func (h *MissingHandler) run(ctx context.Context, lang string, svc Service, call *loadCall) {
	defer close(call.done)

	tree, err := h.loader.GetTranslation(ctx, lang)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load missing translations",
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
		call.err = err

		h.mu.Lock()
		if h.calls[lang] == call {
			delete(h.calls, lang)
		}
		h.mu.Unlock()
		return
	}

	svc.SetTranslation(lang, tree, true)
	call.tree = svc.Translations(lang)
}

var (
	_ MissingTranslationHandler = KeyFallback{}
	_ MissingTranslationHandler = (*MissingHandler)(nil)
)
