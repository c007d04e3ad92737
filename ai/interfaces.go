package ai

import (
	"context"

	"github.com/techpress/newsfeed/core"
)

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a fixed-length vector embedding for a single text.
	// Returns an error if embedding generation fails; callers treat that as
	// fatal for the article being processed.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice matches the order of the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Classifier maps article text to one category of the closed set.
// Implementations must be thread-safe for concurrent use.
//
// Classification failures are returned as *ClassificationError so callers
// can distinguish the cause; callers are expected to absorb any error into
// core.CategoryOther rather than fail the article.
type Classifier interface {
	Classify(ctx context.Context, text string) (core.Category, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. The embedder is expensive to construct (model
// handle, HTTP client); a provider is built once and passed into the
// pipeline rather than cached in a process-wide global.
type Provider interface {
	// Embedder returns the text embedding service, safe for concurrent use.
	Embedder() Embedder

	// Classifier returns the article classification service, safe for
	// concurrent use.
	Classifier() Classifier

	// Close releases resources held by the provider and its services.
	Close() error
}
