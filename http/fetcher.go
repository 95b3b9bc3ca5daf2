// Package http provides the HTTP server for pasting pages and reading
// records, plus a Fetcher that downloads saved pages.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/villages"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxPageSize bounds how much of a page Fetch reads.
const DefaultMaxPageSize = 10 << 20

// Ensure Fetcher implements villages.Fetcher at compile time.
var _ villages.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves saved pages with plain HTTP GET requests.
// The live land-records site needs a postback per dropdown, so this is meant
// for pages that were saved and published somewhere reachable.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxPageSize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPageSize sets the largest body Fetch accepts.
func WithMaxPageSize(n int64) Option {
	return func(f *Fetcher) {
		f.maxPageSize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", villages.Errorf(villages.EINVALID, "invalid page URL %q: %v", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxPageSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > f.maxPageSize {
		return "", villages.Errorf(villages.EINVALID, "page at %s exceeds %d bytes", url, f.maxPageSize)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
