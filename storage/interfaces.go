package storage

import (
	"context"

	"github.com/techpress/newsfeed/core"
)

// ArticleRepository provides durable relational storage for processed
// articles. The URL is globally unique across the store; implementations
// must be safe for concurrent use.
type ArticleRepository interface {
	// Exists reports whether an article with the given URL is stored.
	Exists(ctx context.Context, url string) (bool, error)

	// Save persists the article and returns it with a generated ID and
	// CreatedAt populated. A duplicate URL is rejected with
	// ErrDuplicateURL: dedup is checked upstream, so a conflict here
	// indicates a race or a bug rather than normal operation.
	Save(ctx context.Context, article *core.Article) (*core.Article, error)

	// Get retrieves an article by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*core.Article, error)

	// List returns articles ordered by published time descending.
	// category is an optional equality filter; empty means all.
	List(ctx context.Context, category core.Category, limit, offset int) ([]*core.Article, error)

	// GetByURLs retrieves the articles matching the given URLs. The result
	// order is unspecified; callers re-impose their own ordering. URLs
	// with no matching article are silently absent from the result.
	GetByURLs(ctx context.Context, urls []string) ([]*core.Article, error)

	// Close releases the underlying connection.
	Close() error
}

// VectorMeta is the minimal display metadata stored alongside a vector so
// search hits can be rendered without a relational join.
type VectorMeta struct {
	ID       string
	Title    string
	Category core.Category
}

// VectorIndex is a similarity index over article embeddings, keyed by URL.
// It is a derived, rebuildable projection of the record store.
type VectorIndex interface {
	// Upsert writes the vector and metadata for a URL. Idempotent per URL:
	// a second upsert replaces the entry.
	Upsert(ctx context.Context, url string, vector []float32, meta VectorMeta) error

	// Search returns up to limit URLs ordered nearest-first. May return
	// fewer than limit when the index is smaller.
	Search(ctx context.Context, vector []float32, limit int) ([]string, error)

	// Delete removes the entries for the given URLs. Missing URLs are not
	// an error.
	Delete(ctx context.Context, urls ...string) error

	// URLs returns every indexed URL. Used by the reconcile sweep.
	URLs(ctx context.Context) ([]string, error)

	// Close releases the underlying store.
	Close() error
}
