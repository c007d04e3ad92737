package ingest

import "errors"

var (
	// ErrRepositoryRequired indicates a nil article repository was provided.
	ErrRepositoryRequired = errors.New("article repository is required")

	// ErrIndexRequired indicates a nil vector index was provided.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrProviderRequired indicates a nil AI provider was provided.
	ErrProviderRequired = errors.New("ai provider is required")
)
