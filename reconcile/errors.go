package reconcile

import "errors"

var (
	// ErrRepositoryRequired indicates a nil article repository was provided.
	ErrRepositoryRequired = errors.New("article repository is required")

	// ErrIndexRequired indicates a nil vector index was provided.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrInvalidMaxAttempts indicates a retry with a non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
)
