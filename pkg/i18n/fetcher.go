package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultPrefix is the directory fragments live under: {prefix}/{scope}/{lang}.json.
const DefaultPrefix = "i18n"

// maxFragmentSize bounds the size of a single fragment body.
const maxFragmentSize = 8 << 20

// Fetcher retrieves the translation fragment for one (language, scope) pair.
type Fetcher interface {
	Fetch(ctx context.Context, lang, scope string) (Tree, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, lang, scope string) (Tree, error)

// Fetch calls f(ctx, lang, scope).
func (f FetcherFunc) Fetch(ctx context.Context, lang, scope string) (Tree, error) {
	return f(ctx, lang, scope)
}

// FragmentPath builds the location of a fragment relative to a source root.
//
//	FragmentPath("i18n", "ru", "")            // i18n/ru.json
//	FragmentPath("i18n", "ru", "HOME.COMMON") // i18n/HOME.COMMON/ru.json
func FragmentPath(prefix, lang, scope, ext string) string {
	return path.Join(prefix, scope, lang+ext)
}

// HTTPFetcher downloads fragments with HTTP GET from a base URL.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	prefix  string
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient sets the client used for requests.
// Default: a client with a 10 second timeout.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithHTTPPrefix sets the path prefix fragments are served under.
// Default: "i18n".
func WithHTTPPrefix(prefix string) HTTPOption {
	return func(f *HTTPFetcher) {
		f.prefix = strings.Trim(prefix, "/")
	}
}

// NewHTTPFetcher creates a fetcher requesting {baseURL}/{prefix}/{scope}/{lang}.json.
func NewHTTPFetcher(baseURL string, opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		prefix:  DefaultPrefix,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the address of the fragment for lang and scope.
func (f *HTTPFetcher) URL(lang, scope string) string {
	p := FragmentPath(f.prefix, url.PathEscape(lang), url.PathEscape(scope), ".json")
	return f.baseURL + "/" + p
}

// Fetch implements Fetcher. Non-2xx responses and bodies that are not a JSON
// object are reported as errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, lang, scope string) (Tree, error) {
	u := f.URL(lang, scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrFetchFailed, u, resp.StatusCode)
	}

	return decodeJSON(io.LimitReader(resp.Body, maxFragmentSize), u)
}

// decodeJSON decodes a fragment body that must be a JSON object.
func decodeJSON(r io.Reader, source string) (Tree, error) {
	var tree Tree
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %s", ErrInvalidFragment, source, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: %q is not a JSON object", ErrInvalidFragment, source)
	}
	return tree, nil
}

var (
	_ Fetcher = FetcherFunc(nil)
	_ Fetcher = (*HTTPFetcher)(nil)
)
