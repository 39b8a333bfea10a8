package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/internal"
	"github.com/dmitrymomot/lingua/pkg/i18n"
)

var fragments = fstest.MapFS{
	"i18n/ru.json":             {Data: []byte(`{"APP": {"TITLE": "Лингва"}, "HELLO": "Привет, {{ name }}"}`)},
	"i18n/en.json":             {Data: []byte(`{"APP": {"TITLE": "Lingua"}, "HELLO": "Hello, {{ name }}"}`)},
	"i18n/ADMIN/ru.json":       {Data: []byte(`{"ADMIN": {"TITLE": "Админ"}}`)},
	"i18n/ADMIN/en.json":       {Data: []byte(`{"ADMIN": {"TITLE": "Admin"}}`)},
	"i18n/HOME/ru.json":        {Data: []byte(`{"HOME": {"TITLE": "Главная"}}`)},
	"i18n/HOME/en.json":        {Data: []byte(`{"HOME": {"TITLE": "Home"}}`)},
	"i18n/HOME.COMMON/ru.json": {Data: []byte(`{"HOME": {"COMMON": {"GREETING": "Привет, {{ user.name }}"}}}`)},
	"i18n/HOME.COMMON/en.json": {Data: []byte(`{"HOME": {"COMMON": {"GREETING": "Hi, {{ user.name }}"}}}`)},
}

// countingFetcher counts fetches per language and scope.
type countingFetcher struct {
	next  i18n.Fetcher
	calls map[string]int
	fail  bool
	mu    sync.Mutex
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		next:  i18n.NewFSFetcher(fragments),
		calls: make(map[string]int),
	}
}

func (f *countingFetcher) Fetch(ctx context.Context, lang, scope string) (i18n.Tree, error) {
	f.mu.Lock()
	f.calls[lang+"/"+scope]++
	fail := f.fail
	f.mu.Unlock()

	if fail {
		return nil, errors.New("source is down")
	}
	return f.next.Fetch(ctx, lang, scope)
}

func (f *countingFetcher) count(lang, scope string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[lang+"/"+scope]
}

func (f *countingFetcher) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

// fakeCache records Clear calls and runs onClear, if set, on each of them.
type fakeCache struct {
	onClear func()
	cleared int
	mu      sync.Mutex
}

func (c *fakeCache) Clear(context.Context) error {
	c.mu.Lock()
	c.cleared++
	c.mu.Unlock()

	if c.onClear != nil {
		c.onClear()
	}
	return nil
}

type translation struct {
	Key   string `json:"key"`
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

func newApp(t *testing.T, fetcher i18n.Fetcher, opts ...internal.Option) *internal.App {
	t.Helper()

	opts = append([]internal.Option{internal.WithLanguages("ru", "en")}, opts...)
	app := internal.New(fetcher, opts...)
	require.NoError(t, app.Preload(t.Context()))
	return app
}

func get(t *testing.T, app *internal.App, target string, mods ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, mod := range mods {
		mod(req)
	}
	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)
	return w
}

func translate(t *testing.T, app *internal.App, target string, mods ...func(*http.Request)) translation {
	t.Helper()

	w := get(t, app, target, mods...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tr translation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
	return tr
}

func TestApp_Translate(t *testing.T) {
	t.Parallel()

	t.Run("root key in default language", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher())
		tr := translate(t, app, "/root/t/APP.TITLE")
		assert.Equal(t, translation{Key: "APP.TITLE", Lang: "ru", Value: "Лингва"}, tr)
	})

	t.Run("feature keys load lazily once", func(t *testing.T) {
		t.Parallel()

		fetcher := newCountingFetcher()
		app := newApp(t, fetcher)
		assert.Equal(t, 0, fetcher.count("ru", "ADMIN"))

		assert.Equal(t, "Админ", translate(t, app, "/admin/t/ADMIN.TITLE").Value)
		assert.Equal(t, "Админ", translate(t, app, "/admin/t/ADMIN.TITLE").Value)
		assert.Equal(t, 1, fetcher.count("ru", "ADMIN"))
		assert.Equal(t, 1, fetcher.count("ru", "HOME.COMMON"))
	})

	t.Run("shared scopes are fetched once across modules", func(t *testing.T) {
		t.Parallel()

		fetcher := newCountingFetcher()
		app := newApp(t, fetcher)

		assert.Equal(t, "Админ", translate(t, app, "/admin/t/ADMIN.TITLE").Value)
		assert.Equal(t, "Главная", translate(t, app, "/home/t/HOME.TITLE").Value)

		assert.Equal(t, 1, fetcher.count("ru", "HOME"))
		assert.Equal(t, 1, fetcher.count("ru", "HOME.COMMON"))
		assert.Equal(t, 1, fetcher.count("ru", ""))
	})

	t.Run("interpolates nested query parameters", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher())

		tr := translate(t, app, "/home/t/HOME.COMMON.GREETING?p.user.name=Ivan")
		assert.Equal(t, "Привет, Ivan", tr.Value)

		tr = translate(t, app, "/root/t/HELLO?p.name=Anna&lang=en")
		assert.Equal(t, "Hello, Anna", tr.Value)
	})

	t.Run("unknown key is returned verbatim", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher())
		tr := translate(t, app, "/admin/t/NO.SUCH.KEY")
		assert.Equal(t, "NO.SUCH.KEY", tr.Value)
	})

	t.Run("unknown module", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher())
		w := get(t, app, "/billing/t/TITLE")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "unknown module")
	})

	t.Run("failing source falls back to the key", func(t *testing.T) {
		t.Parallel()

		fetcher := newCountingFetcher()
		app := newApp(t, fetcher)
		fetcher.setFail(true)

		tr := translate(t, app, "/admin/t/ADMIN.TITLE")
		assert.Equal(t, "ADMIN.TITLE", tr.Value)

		fetcher.setFail(false)
		tr = translate(t, app, "/admin/t/ADMIN.TITLE")
		assert.Equal(t, "Админ", tr.Value)
	})
}

func TestApp_Language(t *testing.T) {
	t.Parallel()

	app := newApp(t, newCountingFetcher())

	tests := []struct {
		name string
		mod  func(*http.Request)
		want string
	}{
		{
			name: "default",
			mod:  func(*http.Request) {},
			want: "ru",
		},
		{
			name: "query parameter",
			mod: func(r *http.Request) {
				r.URL.RawQuery = "lang=en"
			},
			want: "en",
		},
		{
			name: "unsupported query parameter is ignored",
			mod: func(r *http.Request) {
				r.URL.RawQuery = "lang=de"
			},
			want: "ru",
		},
		{
			name: "cookie",
			mod: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
			},
			want: "en",
		},
		{
			name: "query wins over cookie",
			mod: func(r *http.Request) {
				r.URL.RawQuery = "lang=ru"
				r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
			},
			want: "ru",
		},
		{
			name: "accept language",
			mod: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-US,en;q=0.9")
			},
			want: "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := get(t, app, "/admin/t/ADMIN.TITLE", tt.mod)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Content-Language"))

			var tr translation
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
			assert.Equal(t, tt.want, tr.Lang)
		})
	}
}

func TestApp_Translations(t *testing.T) {
	t.Parallel()

	t.Run("returns module translations", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher())
		w := get(t, app, "/admin/translations?lang=en")
		require.Equal(t, http.StatusOK, w.Code)

		var tree map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tree))
		v, ok := i18n.LookupPath(tree, []string{"ADMIN", "TITLE"})
		require.True(t, ok)
		assert.Equal(t, "Admin", v)
		v, ok = i18n.LookupPath(tree, []string{"HOME", "COMMON", "GREETING"})
		require.True(t, ok)
		assert.Equal(t, "Hi, {{ user.name }}", v)
	})

	t.Run("failing source", func(t *testing.T) {
		t.Parallel()

		fetcher := newCountingFetcher()
		app := newApp(t, fetcher)
		fetcher.setFail(true)

		w := get(t, app, "/home/translations")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotEmpty(t, w.Header().Get(internal.RequestIDHeader))
		assert.Contains(t, w.Body.String(), w.Header().Get(internal.RequestIDHeader))
	})
}

func TestApp_Reload(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	cache := &fakeCache{}
	app := newApp(t, fetcher, internal.WithFragmentCache(cache))

	assert.Equal(t, "Админ", translate(t, app, "/admin/t/ADMIN.TITLE").Value)
	require.Equal(t, 1, fetcher.count("ru", "ADMIN"))

	req := httptest.NewRequest(http.MethodPost, "/i18n/reload", nil)
	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1, cache.cleared)
	assert.Equal(t, 2, fetcher.count("ru", ""))
	assert.Nil(t, app.Store().Translations("ru")["ADMIN"])

	assert.Equal(t, "Админ", translate(t, app, "/admin/t/ADMIN.TITLE").Value)
	assert.Equal(t, 2, fetcher.count("ru", "ADMIN"))
}

func TestApp_ReloadWithLoadInFlight(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	cache := &fakeCache{}
	app := newApp(t, fetcher, internal.WithFragmentCache(cache))

	// A load completing while the reload is under way must not leave ADMIN
	// marked as loaded once the store has been reset.
	cache.onClear = func() {
		assert.Equal(t, "Админ", translate(t, app, "/admin/t/ADMIN.TITLE").Value)
	}
	require.NoError(t, app.Reload(t.Context()))
	require.Equal(t, 1, fetcher.count("ru", "ADMIN"))

	cache.onClear = nil
	assert.Equal(t, "Админ", translate(t, app, "/admin/t/ADMIN.TITLE").Value)
	assert.Equal(t, 2, fetcher.count("ru", "ADMIN"))
}

func TestApp_StaticFragments(t *testing.T) {
	t.Parallel()

	t.Run("serves fragment files", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher(), internal.WithStaticFragments(fragments))
		w := get(t, app, "/i18n/HOME.COMMON/en.json")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "GREETING")
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("directory listing is disabled", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher(), internal.WithStaticFragments(fragments))
		w := get(t, app, "/i18n/HOME/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("not mounted without a static source", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher())
		w := get(t, app, "/i18n/en.json")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestApp_Health(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher())
		w := get(t, app, "/health/live")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("readiness checks the fragment source", func(t *testing.T) {
		t.Parallel()

		fetcher := newCountingFetcher()
		app := newApp(t, fetcher)
		assert.Equal(t, http.StatusOK, get(t, app, "/health/ready").Code)

		fetcher.setFail(true)
		assert.Equal(t, http.StatusServiceUnavailable, get(t, app, "/health/ready").Code)
	})

	t.Run("custom readiness check", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher(), internal.WithHealthChecks(
			internal.WithReadinessPath("/ready"),
			internal.WithReadinessCheck("redis", func(context.Context) error {
				return errors.New("connection refused")
			}),
		))
		w := get(t, app, "/ready?format=json")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

func TestApp_RequestID(t *testing.T) {
	t.Parallel()

	app := newApp(t, newCountingFetcher())

	w := get(t, app, "/health/live")
	assert.Len(t, w.Header().Get(internal.RequestIDHeader), 36)

	w = get(t, app, "/health/live", func(r *http.Request) {
		r.Header.Set(internal.RequestIDHeader, "upstream-id")
	})
	assert.Equal(t, "upstream-id", w.Header().Get(internal.RequestIDHeader))
}

func TestApp_Recover(t *testing.T) {
	t.Parallel()

	app := newApp(t, newCountingFetcher(), internal.WithMiddleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Has("panic") {
				panic("boom")
			}
			next.ServeHTTP(w, r)
		})
	}))

	w := get(t, app, "/root/t/APP.TITLE?panic=1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}

func TestApp_Preload(t *testing.T) {
	t.Parallel()

	t.Run("switches the current language", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher())
		assert.Equal(t, "ru", app.Store().CurrentLang())
		assert.Equal(t, []string{"ru", "en"}, app.Languages())
	})

	t.Run("fails when the source fails", func(t *testing.T) {
		t.Parallel()

		fetcher := newCountingFetcher()
		fetcher.setFail(true)
		app := internal.New(fetcher)
		require.Error(t, app.Preload(t.Context()))
	})

	t.Run("custom modules", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, newCountingFetcher(), internal.WithModules(
			internal.Root("HOME"),
			internal.Feature("admin", "ADMIN"),
		))
		_, ok := app.Translator("home")
		assert.False(t, ok)

		tr, ok := app.Translator(internal.RootModule)
		require.True(t, ok)
		assert.Equal(t, "Главная", tr.T(t.Context(), "HOME.TITLE"))
	})
}
