// Package fetch contains the source-specific fetch adapters. Each adapter
// produces a normalized []core.RawArticle sequence; network and feed-parse
// failures are wrapped in *FetchError and propagated so the caller decides
// the retry policy. Tag and image extraction are best-effort and never
// fail a fetch.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/techpress/newsfeed/core"
)

const (
	// fetchTimeout bounds a single feed download.
	fetchTimeout = 30 * time.Second

	// userAgent identifies the crawler; Reddit rejects default Go agents.
	userAgent = "newsfeed-bot/1.0"
)

// Fetcher is a source-specific connector producing normalized raw articles.
type Fetcher interface {
	// Fetch downloads and parses the source feed. Errors are *FetchError.
	Fetch(ctx context.Context) ([]core.RawArticle, error)

	// Source returns the source tag attached to fetched articles.
	Source() string
}

// FetchError wraps a network or parse failure for one source.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// download performs a GET with the crawler user agent and returns the body.
func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
