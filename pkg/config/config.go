package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidTarget is returned when Load is given a nil pointer.
var ErrInvalidTarget = errors.New("config: target must be a non-nil pointer to a struct")

var (
	dotenvOnce sync.Once
	loaded     sync.Map // reflect.Type -> any (the parsed value)
)

// Load fills cfg from the environment. The first call loads the nearest
// .env file; variables already set in the environment are not overridden.
// Each configuration type is parsed once and cached for later calls.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrInvalidTarget
	}

	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	if v, ok := loaded.Load(typ); ok {
		*cfg = v.(T)
		return nil
	}

	dotenvOnce.Do(func() { loadDotEnv(6) })

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}

	v, _ := loaded.LoadOrStore(typ, parsed)
	*cfg = v.(T)
	return nil
}

// MustLoad is Load that panics on failure. Use at startup only.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops cached configurations so the next Load parses the environment again.
func Reset() {
	loaded.Clear()
}

// loadDotEnv loads the first .env found in the working directory or up to
// maxDepth of its parents. A missing file is not an error.
func loadDotEnv(maxDepth int) {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for range maxDepth + 1 {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
