package i18n_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/i18n"
)

func TestFragmentPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "i18n/ru.json", i18n.FragmentPath("i18n", "ru", "", ".json"))
	require.Equal(t, "i18n/HOME.COMMON/ru.json", i18n.FragmentPath("i18n", "ru", "HOME.COMMON", ".json"))
	require.Equal(t, "ADMIN/en.yaml", i18n.FragmentPath(".", "en", "ADMIN", ".yaml"))
}

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/i18n/ru.json":
			_, _ = w.Write([]byte(`{"GREETING":"Привет"}`))
		case "/i18n/HOME.COMMON/ru.json":
			_, _ = w.Write([]byte(`{"HOME":{"COMMON":{"OK":"Ок"}}}`))
		case "/i18n/BROKEN/ru.json":
			_, _ = w.Write([]byte(`{"HOME":`))
		case "/i18n/ARRAY/ru.json":
			_, _ = w.Write([]byte(`["a"]`))
		case "/i18n/NULL/ru.json":
			_, _ = w.Write([]byte(`null`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	f := i18n.NewHTTPFetcher(srv.URL + "/")

	t.Run("fetches root fragment", func(t *testing.T) {
		t.Parallel()
		tree, err := f.Fetch(ctx, "ru", "")
		require.NoError(t, err)
		require.Equal(t, i18n.Tree{"GREETING": "Привет"}, tree)
	})

	t.Run("fetches scoped fragment", func(t *testing.T) {
		t.Parallel()
		tree, err := f.Fetch(ctx, "ru", "HOME.COMMON")
		require.NoError(t, err)
		require.Equal(t, i18n.Tree{"HOME": i18n.Tree{"COMMON": i18n.Tree{"OK": "Ок"}}}, tree)
	})

	t.Run("fails on non-2xx", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(ctx, "ru", "MISSING")
		require.ErrorIs(t, err, i18n.ErrFetchFailed)
	})

	t.Run("fails on invalid payload", func(t *testing.T) {
		t.Parallel()
		for _, scope := range []string{"BROKEN", "ARRAY", "NULL"} {
			_, err := f.Fetch(ctx, "ru", scope)
			require.ErrorIs(t, err, i18n.ErrInvalidFragment, scope)
		}
	})

	t.Run("builds URL with custom prefix", func(t *testing.T) {
		t.Parallel()
		custom := i18n.NewHTTPFetcher("https://cdn.example.com", i18n.WithHTTPPrefix("/assets/i18n/"))
		require.Equal(t, "https://cdn.example.com/assets/i18n/ADMIN/en.json", custom.URL("en", "ADMIN"))
		require.Equal(t, "https://cdn.example.com/assets/i18n/en.json", custom.URL("en", ""))
	})

	t.Run("fails on unreachable server", func(t *testing.T) {
		t.Parallel()
		down := i18n.NewHTTPFetcher("http://127.0.0.1:1", i18n.WithHTTPClient(&http.Client{Timeout: time.Second}))
		_, err := down.Fetch(ctx, "ru", "")
		require.ErrorIs(t, err, i18n.ErrFetchFailed)
	})
}

func TestFSFetcher(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"i18n/ru.json":             {Data: []byte(`{"GREETING":"Привет"}`)},
		"i18n/ADMIN/ru.yaml":       {Data: []byte("ADMIN:\n  TITLE: Админ\n")},
		"i18n/HOME.COMMON/ru.yml":  {Data: []byte("HOME:\n  COMMON:\n    OK: Ок\n")},
		"i18n/BROKEN/ru.json":      {Data: []byte(`{`)},
		"i18n/BROKEN_YAML/ru.yaml": {Data: []byte("A: [")},
	}
	ctx := context.Background()
	f := i18n.NewFSFetcher(fsys)

	t.Run("reads JSON", func(t *testing.T) {
		t.Parallel()
		tree, err := f.Fetch(ctx, "ru", "")
		require.NoError(t, err)
		require.Equal(t, i18n.Tree{"GREETING": "Привет"}, tree)
	})

	t.Run("reads YAML", func(t *testing.T) {
		t.Parallel()
		tree, err := f.Fetch(ctx, "ru", "ADMIN")
		require.NoError(t, err)
		require.Equal(t, i18n.Tree{"ADMIN": i18n.Tree{"TITLE": "Админ"}}, tree)

		tree, err = f.Fetch(ctx, "ru", "HOME.COMMON")
		require.NoError(t, err)
		require.Equal(t, i18n.Tree{"HOME": i18n.Tree{"COMMON": i18n.Tree{"OK": "Ок"}}}, tree)
	})

	t.Run("reports missing fragment", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(ctx, "en", "")
		require.ErrorIs(t, err, i18n.ErrFetchFailed)
	})

	t.Run("reports invalid fragment", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(ctx, "ru", "BROKEN")
		require.ErrorIs(t, err, i18n.ErrInvalidFragment)

		_, err = f.Fetch(ctx, "ru", "BROKEN_YAML")
		require.ErrorIs(t, err, i18n.ErrInvalidFragment)
	})

	t.Run("supports root prefix", func(t *testing.T) {
		t.Parallel()
		root := i18n.NewFSFetcher(fstest.MapFS{"ru.json": {Data: []byte(`{"A":"a"}`)}}, i18n.WithFSPrefix("."))
		tree, err := root.Fetch(ctx, "ru", "")
		require.NoError(t, err)
		require.Equal(t, i18n.Tree{"A": "a"}, tree)
	})
}

type fakeObjects struct {
	objects map[string]string
}

func (f fakeObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("storage: file not found")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestObjectFetcher(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := i18n.NewObjectFetcher(fakeObjects{objects: map[string]string{
		"i18n/ADMIN/ru.json": `{"ADMIN":{"TITLE":"Админ"}}`,
	}}, "")

	tree, err := f.Fetch(ctx, "ru", "ADMIN")
	require.NoError(t, err)
	require.Equal(t, i18n.Tree{"ADMIN": i18n.Tree{"TITLE": "Админ"}}, tree)

	_, err = f.Fetch(ctx, "en", "ADMIN")
	require.ErrorIs(t, err, i18n.ErrFetchFailed)
}

// mapCache is a minimal FragmentCache.
type mapCache struct {
	items map[string]map[string]any
	mu    sync.Mutex
}

func (c *mapCache) Get(_ context.Context, lang, scope string) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[lang+"/"+scope]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, lang, scope string, fragment map[string]any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[lang+"/"+scope] = fragment
	return nil
}

func TestCachingFetcher(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("serves repeated fetches from cache", func(t *testing.T) {
		t.Parallel()

		upstream := newFakeFetcher(ruFragments())
		f := i18n.NewCachingFetcher(upstream, &mapCache{items: map[string]map[string]any{}}, time.Minute)

		for range 3 {
			tree, err := f.Fetch(ctx, "ru", "ADMIN")
			require.NoError(t, err)
			require.Equal(t, i18n.Tree{"ADMIN": i18n.Tree{"TITLE": "Админ"}}, tree)
		}
		require.Equal(t, 1, upstream.count("ru", "ADMIN"))
	})

	t.Run("collapses concurrent misses", func(t *testing.T) {
		t.Parallel()

		upstream := newFakeFetcher(ruFragments())
		upstream.gate = make(chan struct{})
		f := i18n.NewCachingFetcher(upstream, &mapCache{items: map[string]map[string]any{}}, time.Minute)

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = f.Fetch(ctx, "ru", "HOME")
			}()
		}
		require.Eventually(t, func() bool { return upstream.count("ru", "HOME") >= 1 }, time.Second, time.Millisecond)
		time.Sleep(10 * time.Millisecond)
		close(upstream.gate)
		wg.Wait()

		_, err := f.Fetch(ctx, "ru", "HOME")
		require.NoError(t, err)
		require.LessOrEqual(t, upstream.count("ru", "HOME"), 5)
		require.GreaterOrEqual(t, upstream.count("ru", "HOME"), 1)
	})

	t.Run("cancelled caller does not abort a shared fetch", func(t *testing.T) {
		t.Parallel()

		upstream := newFakeFetcher(ruFragments())
		upstream.gate = make(chan struct{})
		f := i18n.NewCachingFetcher(upstream, &mapCache{items: map[string]map[string]any{}}, time.Minute)

		leaderCtx, cancel := context.WithCancel(ctx)
		leader := make(chan error, 1)
		go func() {
			_, err := f.Fetch(leaderCtx, "ru", "HOME.COMMON")
			leader <- err
		}()
		require.Eventually(t, func() bool { return upstream.count("ru", "HOME.COMMON") == 1 }, time.Second, time.Millisecond)

		follower := make(chan error, 1)
		go func() {
			_, err := f.Fetch(ctx, "ru", "HOME.COMMON")
			follower <- err
		}()
		time.Sleep(10 * time.Millisecond)

		cancel()
		require.ErrorIs(t, <-leader, context.Canceled)

		close(upstream.gate)
		require.NoError(t, <-follower)

		tree, err := f.Fetch(ctx, "ru", "HOME.COMMON")
		require.NoError(t, err)
		require.Contains(t, tree, "HOME")
	})

	t.Run("does not cache failures", func(t *testing.T) {
		t.Parallel()

		upstream := newFakeFetcher(ruFragments())
		upstream.fail("ru", "ADMIN", errors.New("boom"))
		f := i18n.NewCachingFetcher(upstream, &mapCache{items: map[string]map[string]any{}}, time.Minute)

		_, err := f.Fetch(ctx, "ru", "ADMIN")
		require.Error(t, err)

		upstream.heal("ru", "ADMIN")
		_, err = f.Fetch(ctx, "ru", "ADMIN")
		require.NoError(t, err)
		require.Equal(t, 2, upstream.count("ru", "ADMIN"))
	})
}
