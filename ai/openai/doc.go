// Package openai provides ai.Embedder and ai.Classifier implementations
// backed by OpenAI-compatible HTTP APIs (OpenAI, Ollama, LocalAI, vLLM).
//
// The embedder uses the embeddings endpoint; the classifier uses the chat
// endpoint with a fixed system prompt listing the closed category set and
// parses the completion back into a core.Category. Both are safe for
// concurrent use and carry a bounded per-call timeout from ai.Config.
package openai
