package fetch

import (
	"context"
	"fmt"

	"github.com/techpress/newsfeed/core"
)

// RedditFetcher fetches a subreddit's Atom feed. Reddit serves regular
// Atom at /r/<subreddit>/.rss, so it rides on the RSS fetcher with a
// reddit-specific source tag; the placeholder-body substitution in
// extractContent covers the link-post wrapper Reddit emits.
type RedditFetcher struct {
	subreddit string
	inner     *RSSFetcher
}

var _ Fetcher = (*RedditFetcher)(nil)

// NewRedditFetcher creates a fetcher for the given subreddit.
func NewRedditFetcher(subreddit string) *RedditFetcher {
	source := fmt.Sprintf("reddit/r/%s", subreddit)
	feedURL := fmt.Sprintf("https://www.reddit.com/r/%s/.rss", subreddit)
	return &RedditFetcher{
		subreddit: subreddit,
		inner:     NewRSSFetcher(feedURL, source),
	}
}

// Source returns the "reddit/r/<subreddit>" source tag.
func (f *RedditFetcher) Source() string {
	return f.inner.Source()
}

// Fetch downloads and parses the subreddit feed.
func (f *RedditFetcher) Fetch(ctx context.Context) ([]core.RawArticle, error) {
	return f.inner.Fetch(ctx)
}
