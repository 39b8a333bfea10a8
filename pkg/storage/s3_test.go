package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		store, err := New(Config{
			Bucket:    "test-bucket",
			AccessKey: "test-access-key",
			SecretKey: "test-secret-key",
		})
		require.NoError(t, err)
		require.NotNil(t, store.client)
		require.Equal(t, DefaultRegion, store.cfg.Region)
		require.Equal(t, DefaultPrefix, store.Prefix())
	})

	t.Run("custom endpoint", func(t *testing.T) {
		t.Parallel()

		store, err := New(Config{
			Bucket:    "test-bucket",
			AccessKey: "test-access-key",
			SecretKey: "test-secret-key",
			Endpoint:  "http://localhost:9000",
			Prefix:    "assets/i18n",
			PathStyle: true,
		})
		require.NoError(t, err)
		require.Equal(t, "assets/i18n", store.Prefix())
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		store, err := New(Config{Bucket: "test-bucket"})
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, store)
	})
}

func TestCleanKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "i18n/ru.json", want: "i18n/ru.json"},
		{in: "/i18n/HOME.COMMON/ru.json", want: "i18n/HOME.COMMON/ru.json"},
		{in: "  i18n/ADMIN/en.json ", want: "i18n/ADMIN/en.json"},
		{in: "i18n/../secret.json", want: ""},
		{in: "..", want: ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, cleanKey(tt.in), tt.in)
	}
}

func TestPut_InvalidKey(t *testing.T) {
	t.Parallel()

	store, err := New(Config{Bucket: "b", AccessKey: "a", SecretKey: "s"})
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../ru.json", strings.NewReader("{}"), 2)
	require.ErrorIs(t, err, ErrInvalidKey)
}
