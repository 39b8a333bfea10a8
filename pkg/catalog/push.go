package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/lingua/pkg/i18n"
	"github.com/dmitrymomot/lingua/pkg/storage"
)

// Uploader stores an object. storage.S3Storage satisfies it.
type Uploader interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, opts ...storage.Option) (*storage.ObjectInfo, error)
}

// PushOptions configures Push.
type PushOptions struct {
	// Prefix is the key prefix, default "i18n".
	Prefix string

	// CacheControl is sent with every object when set.
	CacheControl string

	// Concurrency bounds parallel uploads, default 4.
	Concurrency int
}

// Push uploads the fragment files of langs under dir to object storage using
// the {prefix}/{scope}/{lang}.json layout. Files are validated before upload.
// It returns the uploaded keys.
func Push(ctx context.Context, dir string, langs []string, up Uploader, opts PushOptions) ([]string, error) {
	if len(langs) == 0 {
		return nil, ErrNoLanguages
	}
	if opts.Prefix == "" {
		opts.Prefix = i18n.DefaultPrefix
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	scopes, err := Scopes(dir)
	if err != nil {
		return nil, err
	}
	scopes = append([]string{""}, scopes...)

	var putOpts []storage.Option
	if opts.CacheControl != "" {
		putOpts = append(putOpts, storage.WithCacheControl(opts.CacheControl))
	}

	var (
		mu   sync.Mutex
		keys []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, lang := range langs {
		for _, scope := range scopes {
			g.Go(func() error {
				name := fragmentFile(dir, lang, scope)
				data, err := os.ReadFile(name)
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("catalog: reading %q: %w", name, err)
				}
				if _, err := Decode(data, name); err != nil {
					return err
				}

				key := i18n.FragmentPath(opts.Prefix, lang, scope, ".json")
				if _, err := up.Put(gctx, key, bytes.NewReader(data), int64(len(data)), putOpts...); err != nil {
					return fmt.Errorf("catalog: uploading %q: %w", key, err)
				}

				mu.Lock()
				keys = append(keys, key)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}
