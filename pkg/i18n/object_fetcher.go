package i18n

import (
	"context"
	"fmt"
	"io"
)

// ObjectGetter reads an object by key. storage.S3Storage satisfies it.
type ObjectGetter interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ObjectFetcher reads JSON fragments from object storage using the same
// {prefix}/{scope}/{lang}.json layout as the HTTP contract.
type ObjectFetcher struct {
	store  ObjectGetter
	prefix string
}

// NewObjectFetcher creates a fetcher reading objects below prefix.
// An empty prefix defaults to "i18n".
func NewObjectFetcher(store ObjectGetter, prefix string) *ObjectFetcher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ObjectFetcher{store: store, prefix: prefix}
}

// Fetch implements Fetcher.
func (f *ObjectFetcher) Fetch(ctx context.Context, lang, scope string) (Tree, error) {
	key := FragmentPath(f.prefix, lang, scope, ".json")

	body, err := f.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, key, err)
	}
	defer func() { _ = body.Close() }()

	return decodeJSON(io.LimitReader(body, maxFragmentSize), key)
}

var _ Fetcher = (*ObjectFetcher)(nil)
