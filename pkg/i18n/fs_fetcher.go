package i18n

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// FSFetcher reads fragments from an fs.FS, e.g. an embedded directory or os.DirFS.
// For each fragment the extensions .json, .yaml and .yml are tried in order.
//
// Example structure:
//
//	i18n/ru.json
//	i18n/en.json
//	i18n/HOME/ru.json
//	i18n/HOME.COMMON/ru.yaml
type FSFetcher struct {
	fsys   fs.FS
	prefix string
}

// FSOption configures an FSFetcher.
type FSOption func(*FSFetcher)

// WithFSPrefix sets the directory inside the fs.FS holding the fragments.
// Default: "i18n". Use "." when the fs.FS root is the fragment directory.
func WithFSPrefix(prefix string) FSOption {
	return func(f *FSFetcher) {
		f.prefix = prefix
	}
}

// NewFSFetcher creates a fetcher over fsys.
func NewFSFetcher(fsys fs.FS, opts ...FSOption) *FSFetcher {
	f := &FSFetcher{fsys: fsys, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var fragmentDecoders = []struct {
	decode func(data []byte, source string) (Tree, error)
	ext    string
}{
	{ext: ".json", decode: func(data []byte, source string) (Tree, error) {
		return decodeJSON(bytes.NewReader(data), source)
	}},
	{ext: ".yaml", decode: decodeYAML},
	{ext: ".yml", decode: decodeYAML},
}

// Fetch implements Fetcher.
func (f *FSFetcher) Fetch(ctx context.Context, lang, scope string) (Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, d := range fragmentDecoders {
		name := FragmentPath(f.prefix, lang, scope, d.ext)

		data, err := fs.ReadFile(f.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %q: %v", ErrFetchFailed, name, err)
		}
		return d.decode(data, name)
	}

	return nil, fmt.Errorf("%w: no fragment for language %q scope %q", ErrFetchFailed, lang, scope)
}

func decodeYAML(data []byte, source string) (Tree, error) {
	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %s", ErrInvalidFragment, source, err)
	}
	if tree == nil {
		tree = Tree{}
	}
	return tree, nil
}

var _ Fetcher = (*FSFetcher)(nil)
