package openai

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techpress/newsfeed/ai"
	"github.com/techpress/newsfeed/core"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel implements llms.Model with a canned response.
type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompts = append(f.prompts, text.Text)
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.response, f.err
}

func newTestClassifier(model llms.Model) *Classifier {
	return &Classifier{client: model, logger: slog.Default()}
}

func TestClassify_MatchesCategory(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     core.Category
	}{
		{"exact", "Cybersecurity", core.CategoryCybersecurity},
		{"lowercase", "cybersecurity", core.CategoryCybersecurity},
		{"with whitespace", "  Hardware & Devices\n", core.CategoryHardware},
		{"other", "Other", core.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(&fakeModel{response: tt.response})
			got, err := c.Classify(context.Background(), "some article text")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_UnrecognizedCategory(t *testing.T) {
	c := newTestClassifier(&fakeModel{response: "Sports"})

	_, err := c.Classify(context.Background(), "match report")
	require.Error(t, err)

	var cerr *ai.ClassificationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ai.KindUnrecognized, cerr.Kind)
	assert.ErrorIs(t, err, core.ErrUnknownCategory)
}

func TestClassify_RequestFailure(t *testing.T) {
	c := newTestClassifier(&fakeModel{err: errors.New("connection refused")})

	_, err := c.Classify(context.Background(), "text")
	var cerr *ai.ClassificationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ai.KindRequest, cerr.Kind)
}

func TestClassify_Timeout(t *testing.T) {
	c := newTestClassifier(&fakeModel{err: context.DeadlineExceeded})

	_, err := c.Classify(context.Background(), "text")
	var cerr *ai.ClassificationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ai.KindTimeout, cerr.Kind)
}

func TestClassify_PromptCarriesCategories(t *testing.T) {
	model := &fakeModel{response: "Other"}
	c := newTestClassifier(model)

	_, err := c.Classify(context.Background(), "article body")
	require.NoError(t, err)

	require.NotEmpty(t, model.prompts)
	system := model.prompts[0]
	for _, cat := range core.Categories() {
		assert.Contains(t, system, cat.String())
	}
	assert.Contains(t, model.prompts, "article body")
}
