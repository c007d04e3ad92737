package ai

import "fmt"

// ClassificationKind identifies the cause of a classification failure.
// The pipeline maps every kind to the same fallback category, but the
// kinds stay distinguishable for logging and metrics.
type ClassificationKind string

const (
	// KindRequest covers network, auth, and other transport failures.
	KindRequest ClassificationKind = "request"

	// KindTimeout covers deadline expiry on the classification call.
	KindTimeout ClassificationKind = "timeout"

	// KindMalformed covers responses that carry no usable completion.
	KindMalformed ClassificationKind = "malformed"

	// KindUnrecognized covers completions that match no known category.
	KindUnrecognized ClassificationKind = "unrecognized"
)

// ClassificationError describes a failed classification attempt.
type ClassificationError struct {
	Kind ClassificationKind
	Err  error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("classification failed (%s)", e.Kind)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// NewClassificationError wraps err with a failure kind.
func NewClassificationError(kind ClassificationKind, err error) *ClassificationError {
	return &ClassificationError{Kind: kind, Err: err}
}
