package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/techpress/newsfeed/ai"
	"github.com/techpress/newsfeed/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Classifier implements ai.Classifier using OpenAI-compatible chat APIs.
// It asks the model for exactly one category display string and matches
// the completion case-insensitively against the closed category set.
type Classifier struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.Classifier = (*Classifier)(nil)

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ClassifierModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new classifier using the provided configuration.
//
// Returns ai.Classifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	return newClassifier(config)
}

// Classify maps article text to one category of the closed set. Failures
// are returned as *ai.ClassificationError with a distinguishable kind; the
// caller decides the fallback (the pipeline maps every kind to
// core.CategoryOther).
func (c *Classifier) Classify(ctx context.Context, text string) (core.Category, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildClassifyPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		kind := ai.KindRequest
		if errors.Is(err, context.DeadlineExceeded) {
			kind = ai.KindTimeout
		}
		c.logger.Error("classification request failed", "kind", kind, "err", err)
		return "", ai.NewClassificationError(kind, err)
	}

	if len(response.Choices) == 0 {
		c.logger.Warn("classifier returned no choices")
		return "", ai.NewClassificationError(ai.KindMalformed, errors.New("no choices in response"))
	}

	result := response.Choices[0].Content
	category, err := core.ParseCategory(result)
	if err != nil {
		c.logger.Warn("classifier returned unrecognized category", "response", result)
		return "", ai.NewClassificationError(ai.KindUnrecognized, err)
	}

	c.logger.Debug("classified text", "category", category)
	return category, nil
}
