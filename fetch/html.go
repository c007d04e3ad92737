package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Reddit feed bodies are often just a link wrapper sentence. When all
// three markers appear in the cleaned text, the body carries no semantic
// signal and the title is substituted so the embedding has something to
// work with.
var redditPlaceholderMarkers = []string{"submitted by", "/u/", "[link]"}

// cleanHTML strips markup and collapses the result into trimmed,
// newline-separated text lines.
func cleanHTML(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Unparseable markup: fall back to the raw text.
		return strings.TrimSpace(html)
	}

	text := doc.Text()
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n")
}

// isRedditPlaceholder reports whether cleaned text is a link-aggregator
// wrapper with no article body.
func isRedditPlaceholder(text string) bool {
	for _, marker := range redditPlaceholderMarkers {
		if !strings.Contains(text, marker) {
			return false
		}
	}
	return true
}
