// Package extract scrapes public API documentation, structured
// (OpenAPI/Swagger JSON) or unstructured (HTML pages), into canonical
// endpoint records.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html"
)

// Fetcher performs timeout-bound documentation fetches with a small
// exponential-backoff retry budget for transient failures
type Fetcher struct {
	client *http.Client
}

const fetchAttempts = 3

var (
	// ErrFetch is returned when a documentation source cannot be retrieved
	// (network failure or non-success status)
	ErrFetch = errors.New("documentation fetch failed")

	// ErrParse is returned when a retrieved document is not in the
	// expected format
	ErrParse = errors.New("documentation parse failed")
)

// NewFetcher creates a fetcher whose requests abort after the given timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// GetJSON retrieves a URL and decodes it as a JSON document
func (f *Fetcher) GetJSON(
	ctx context.Context, url string,
) (map[string]any, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf(
			"%w: %s is not a JSON document: %w", ErrParse, url, err,
		)
	}
	return doc, nil
}

// GetHTML retrieves a URL and parses it as an HTML page
func (f *Fetcher) GetHTML(
	ctx context.Context, url string,
) (*html.Node, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, url, err)
	}
	return doc, nil
}

// get retries network errors and server-side failures; client errors are
// permanent
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, url, nil,
		)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode < http.StatusOK ||
			resp.StatusCode >= http.StatusMultipleChoices {
			return backoff.Permanent(
				fmt.Errorf("status %d", resp.StatusCode),
			)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(), fetchAttempts-1,
		), ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrFetch, url, err)
	}
	return body, nil
}
