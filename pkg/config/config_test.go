package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/config"
)

type fragmentsConfig struct {
	BaseURL   string        `env:"TEST_I18N_BASE_URL" envDefault:"http://localhost:8080"`
	Languages []string      `env:"TEST_I18N_LANGUAGES" envDefault:"ru,en" envSeparator:","`
	CacheTTL  time.Duration `env:"TEST_I18N_CACHE_TTL" envDefault:"10m"`
}

type requiredConfig struct {
	Bucket string `env:"TEST_REQUIRED_BUCKET,required"`
}

type cachedConfig struct {
	Name string `env:"TEST_CACHED_NAME"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults and overrides", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_I18N_LANGUAGES", "uk,en,ru")

		var cfg fragmentsConfig
		require.NoError(t, config.Load(&cfg))
		require.Equal(t, "http://localhost:8080", cfg.BaseURL)
		require.Equal(t, []string{"uk", "en", "ru"}, cfg.Languages)
		require.Equal(t, 10*time.Minute, cfg.CacheTTL)
	})

	t.Run("reports missing required variables", func(t *testing.T) {
		config.Reset()

		var cfg requiredConfig
		require.Error(t, config.Load(&cfg))
		require.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("caches per type", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_CACHED_NAME", "first")

		var first cachedConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("TEST_CACHED_NAME", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))
		require.Equal(t, "first", second.Name)

		config.Reset()
		require.NoError(t, config.Load(&second))
		require.Equal(t, "second", second.Name)
	})

	t.Run("rejects nil target", func(t *testing.T) {
		require.ErrorIs(t, config.Load[fragmentsConfig](nil), config.ErrInvalidTarget)

		s := "x"
		require.ErrorIs(t, config.Load(&s), config.ErrInvalidTarget)
	})
}
