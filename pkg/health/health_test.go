package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/health"
	"github.com/dmitrymomot/lingua/pkg/i18n"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	t.Run("plain text", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live?format=json", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("connection refused") }

	t.Run("healthy without checks", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.ReadinessHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("reports failing check", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		health.ReadinessHandler(health.Checks{"fragments": ok, "redis": fail})(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, health.StatusUnhealthy, resp.Status)
		require.Equal(t, health.StatusHealthy, resp.Checks["fragments"].Status)
		require.Equal(t, "connection refused", resp.Checks["redis"].Error)
	})

	t.Run("times out slow checks", func(t *testing.T) {
		t.Parallel()

		slow := func(ctx context.Context) error {
			time.Sleep(time.Second)
			return nil
		}
		rec := httptest.NewRecorder()
		start := time.Now()
		health.ReadinessHandler(health.Checks{"slow": slow}, health.WithTimeout(20*time.Millisecond))(
			rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "Service Unavailable", rec.Body.String())
		require.Less(t, time.Since(start), 500*time.Millisecond)
	})
}

func TestFragmentSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := i18n.FetcherFunc(func(_ context.Context, lang, scope string) (i18n.Tree, error) {
		if lang == "ru" && scope == "" {
			return i18n.Tree{"GREETING": "Привет"}, nil
		}
		return nil, i18n.ErrFetchFailed
	})

	require.NoError(t, health.FragmentSource(source, "ru")(ctx))
	require.ErrorIs(t, health.FragmentSource(source, "de")(ctx), health.ErrCheckFailed)
}
