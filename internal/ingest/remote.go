package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"statfit/domain/core"
	"statfit/domain/table"
)

// Fetcher retrieves a remote delimited dataset into an observation table
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*table.Table, error)
}

// HTTPFetcher fetches a CSV dataset over HTTP. One-shot: a network error, a
// non-2xx status, or a parse failure is a fatal ingest error with no retry.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a bounded request timeout
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads and parses the dataset at url
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*table.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFetchFailed, url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status %s", core.ErrFetchFailed, url, resp.Status)
	}

	return parseCSV(resp.Body, url)
}
