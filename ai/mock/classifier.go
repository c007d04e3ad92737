package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/techpress/newsfeed/core"
)

// MockClassifier is a test double for ai.Classifier.
// It allows custom behavior injection via a function field.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default keyword-based behavior.
	ClassifyFunc func(ctx context.Context, text string) (core.Category, error)

	mu        sync.Mutex
	callCount int
	inputs    []string
}

// NewMockClassifier creates a mock classifier with default keyword-based
// behavior. Note: Returns concrete type to allow test assertions.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify maps text to a category by naive keyword matching. Unknown text
// falls through to core.CategoryOther, mirroring the production fallback.
func (m *MockClassifier) Classify(ctx context.Context, text string) (core.Category, error) {
	m.mu.Lock()
	m.callCount++
	m.inputs = append(m.inputs, text)
	fn := m.ClassifyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "vulnerability"), strings.Contains(lower, "malware"), strings.Contains(lower, "breach"):
		return core.CategoryCybersecurity, nil
	case strings.Contains(lower, "llm"), strings.Contains(lower, "machine learning"), strings.Contains(lower, "neural"):
		return core.CategoryAI, nil
	case strings.Contains(lower, "compiler"), strings.Contains(lower, "programming"), strings.Contains(lower, "framework"):
		return core.CategorySoftware, nil
	case strings.Contains(lower, "cpu"), strings.Contains(lower, "gpu"), strings.Contains(lower, "chip"):
		return core.CategoryHardware, nil
	case strings.Contains(lower, "acquisition"), strings.Contains(lower, "startup"), strings.Contains(lower, "earnings"):
		return core.CategoryBusiness, nil
	default:
		return core.CategoryOther, nil
	}
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Inputs returns the texts passed to Classify, in call order.
func (m *MockClassifier) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// Reset clears call state and the custom function.
func (m *MockClassifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.inputs = nil
	m.ClassifyFunc = nil
}
