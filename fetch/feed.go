package fetch

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/techpress/newsfeed/core"
)

// itemToRawArticle normalizes a single feed item. Missing timestamps fall
// back to now; tag and image extraction never fail the item.
func itemToRawArticle(item *gofeed.Item, source string, now time.Time) core.RawArticle {
	return core.RawArticle{
		URL:         item.Link,
		Title:       item.Title,
		Content:     extractContent(item),
		Source:      source,
		PublishedAt: publishedAt(item, now),
		Author:      extractAuthor(item),
		Tags:        extractTags(item),
		ImageURL:    extractImage(item),
	}
}

// extractContent prefers the full content element over the summary, cleans
// the markup, and substitutes the title for link-aggregator placeholder
// bodies so the embedding keeps semantic signal.
func extractContent(item *gofeed.Item) string {
	raw := item.Content
	if raw == "" {
		raw = item.Description
	}

	cleaned := cleanHTML(raw)
	if isRedditPlaceholder(cleaned) {
		return item.Title
	}
	return cleaned
}

func publishedAt(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return now
}

func extractAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return item.Authors[0].Name
	}
	// Some feeds only carry dc:creator.
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		return item.DublinCoreExt.Creator[0]
	}
	return ""
}

func extractTags(item *gofeed.Item) []string {
	if len(item.Categories) == 0 {
		return nil
	}
	tags := make([]string, 0, len(item.Categories))
	for _, c := range item.Categories {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// extractImage looks for a lead image: the feed item image, then image
// enclosures, then media:content extensions.
func extractImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, content := range media["content"] {
			url := content.Attrs["url"]
			if url == "" {
				continue
			}
			if medium, ok := content.Attrs["medium"]; ok && medium != "image" {
				continue
			}
			return url
		}
	}

	return ""
}
