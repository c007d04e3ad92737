package core

import (
	"strings"
	"time"
)

// Category is a topic label assigned to an article by the classifier.
// The set of categories is closed; see Categories.
type Category string

const (
	CategoryCybersecurity Category = "Cybersecurity"
	CategoryAI            Category = "Artificial Intelligence & Emerging Tech"
	CategorySoftware      Category = "Software & Development"
	CategoryHardware      Category = "Hardware & Devices"
	CategoryBusiness      Category = "Tech Industry & Business"
	CategoryOther         Category = "Other"
)

// Categories returns the closed set of valid categories.
// CategoryOther is the mandatory fallback for anything the classifier
// cannot place.
func Categories() []Category {
	return []Category{
		CategoryCybersecurity,
		CategoryAI,
		CategorySoftware,
		CategoryHardware,
		CategoryBusiness,
		CategoryOther,
	}
}

// ParseCategory matches s against the category display strings,
// case-insensitively and ignoring surrounding whitespace.
// Returns ErrUnknownCategory if s matches nothing.
func ParseCategory(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// String returns the category display string.
func (c Category) String() string {
	return string(c)
}

// RawArticle is the normalized output of a fetch adapter. It is transient:
// the pipeline consumes it immediately and never persists it as-is.
type RawArticle struct {
	URL         string    // canonical article URL, used as identity
	Title       string
	Content     string    // cleaned plain text
	Source      string    // source tag, e.g. "Ars Technica" or "reddit/r/programming"
	PublishedAt time.Time // fetch time when the feed carries no timestamp
	Author      string    // optional
	Tags        []string  // optional, order preserved from the feed
	ImageURL    string    // optional
}

// Metadata keys used on processed articles.
const (
	MetadataAuthor   = "author"
	MetadataTags     = "tags"
	MetadataImageURL = "image_url"
)

// Article is a processed, persistent article record. Records are immutable
// after creation; there is no update or delete path.
type Article struct {
	ID          string            // opaque unique identifier; the repository generates one at save if empty
	URL         string            // globally unique across the record store
	Title       string
	Content     string
	Category    Category
	Source      string
	PublishedAt time.Time
	CreatedAt   time.Time         // set at persistence time
	Metadata    map[string]string // author, tags, image_url
	Embedding   []float32         // nil when embedding failed; such records are never indexed
}

// Meta assembles the metadata map for a raw article. Tags are joined with
// commas; empty values are omitted so the map stays minimal.
func (r *RawArticle) Meta() map[string]string {
	meta := make(map[string]string)
	if r.Author != "" {
		meta[MetadataAuthor] = r.Author
	}
	if len(r.Tags) > 0 {
		meta[MetadataTags] = strings.Join(r.Tags, ",")
	}
	if r.ImageURL != "" {
		meta[MetadataImageURL] = r.ImageURL
	}
	return meta
}
