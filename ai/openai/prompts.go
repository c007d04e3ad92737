package openai

import (
	"fmt"
	"strings"

	"github.com/techpress/newsfeed/core"
)

const classifyPromptTemplate = `You are a tech news classifier. Classify the news article text provided by the user into exactly one of these categories: %s.
Return ONLY the category name, nothing else. No punctuation, no explanation, no preamble.`

// buildClassifyPrompt renders the system prompt with the closed category
// set so the model can only pick from the display strings we can parse.
func buildClassifyPrompt() string {
	categories := core.Categories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	return fmt.Sprintf(classifyPromptTemplate, strings.Join(names, ", "))
}
