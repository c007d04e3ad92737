package fetch

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/techpress/newsfeed/core"
)

// RSSFetcher fetches articles from an RSS or Atom feed.
type RSSFetcher struct {
	feedURL string
	source  string
	client  *http.Client
	parser  *gofeed.Parser
	logger  *slog.Logger
	now     func() time.Time
}

var _ Fetcher = (*RSSFetcher)(nil)

// NewRSSFetcher creates a fetcher for the given feed URL. The source name
// is attached to every article the fetcher produces.
func NewRSSFetcher(feedURL, source string) *RSSFetcher {
	return &RSSFetcher{
		feedURL: feedURL,
		source:  source,
		client:  newHTTPClient(),
		parser:  gofeed.NewParser(),
		logger:  slog.Default().With("component", "rss-fetcher", "source", source),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Source returns the source tag for this feed.
func (f *RSSFetcher) Source() string {
	return f.source
}

// Fetch downloads and parses the feed.
func (f *RSSFetcher) Fetch(ctx context.Context) ([]core.RawArticle, error) {
	f.logger.Debug("fetching feed", "url", f.feedURL)

	data, err := download(ctx, f.client, f.feedURL)
	if err != nil {
		f.logger.Error("failed to download feed", "url", f.feedURL, "err", err)
		return nil, &FetchError{Source: f.source, Err: err}
	}

	articles, err := f.parse(data)
	if err != nil {
		f.logger.Error("failed to parse feed", "url", f.feedURL, "err", err)
		return nil, &FetchError{Source: f.source, Err: err}
	}

	f.logger.Info("fetched articles", "count", len(articles))
	return articles, nil
}

func (f *RSSFetcher) parse(data []byte) ([]core.RawArticle, error) {
	feed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	now := f.now()
	articles := make([]core.RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		articles = append(articles, itemToRawArticle(item, f.source, now))
	}
	return articles, nil
}
