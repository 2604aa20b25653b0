package repository

import "context"

// Fetcher retrieves the raw content of a page. It never retries.
type Fetcher interface {
	// Fetch returns the page body for locator, or an error wrapping ErrFetchFailed.
	Fetch(ctx context.Context, locator string) ([]byte, error)
}
