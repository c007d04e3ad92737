// Package mock provides test double implementations of the ai interfaces.
//
// The mocks run without network access and behave deterministically:
//
//   - MockEmbedder: unit vectors derived from a hash of the input text
//   - MockClassifier: naive keyword matching with the Other fallback
//   - MockProvider: aggregates both
//
// Custom behavior is injected via function fields:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("model offline")
//	}
package mock
