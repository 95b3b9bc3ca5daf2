package villages

import "context"

// Fetcher retrieves a saved page over the network.
type Fetcher interface {
	// Fetch returns the HTML body at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
