// Copyright 2025 Techpress Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services the newsfeed
// pipeline depends on: text embedding and article classification.
//
// The package defines capability interfaces so the pipeline and search
// layers depend on abstractions rather than concrete clients:
//
//   - Embedder: generates vector embeddings from text
//   - Classifier: maps article text to one category of a closed set
//   - Provider: aggregates both for initialization and lifetime scoping
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation against OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles, no network
//
// Production constructors (openai.NewProvider and friends) return the
// interface types to prevent coupling to a concrete client; the mock
// constructors return concrete types so tests can inject behavior and
// assert call counts.
package ai
