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

// Package search implements semantic article search: the query is embedded,
// the vector index supplies a nearest-first URL ranking, and the record
// store hydrates the full articles.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/techpress/newsfeed/ai"
	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/metrics"
	"github.com/techpress/newsfeed/storage"
)

// Searcher provides semantic search over stored articles.
type Searcher struct {
	repository storage.ArticleRepository
	index      storage.VectorIndex
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "searcher")
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	repository storage.ArticleRepository,
	index storage.VectorIndex,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		repository: repository,
		index:      index,
		embedder:   provider.Embedder(),
		logger:     slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to limit articles ranked by semantic similarity to the
// query, nearest first. Index entries whose URL no longer resolves in the
// record store are dropped from the result rather than surfaced as errors.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]*core.Article, error) {
	if strings.TrimSpace(query) == "" {
		metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, ErrEmptyQuery
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	urls, err := s.index.Search(ctx, vector, limit)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(urls) == 0 {
		metrics.SearchRequests.WithLabelValues("ok").Inc()
		return nil, nil
	}

	articles, err := s.repository.GetByURLs(ctx, urls)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	// Re-impose the index ranking; GetByURLs returns rows in store order.
	byURL := make(map[string]*core.Article, len(articles))
	for _, article := range articles {
		byURL[article.URL] = article
	}

	ranked := make([]*core.Article, 0, len(urls))
	for _, url := range urls {
		article, ok := byURL[url]
		if !ok {
			// Dangling index entry; the reconcile sweep will purge it.
			s.logger.Warn("dropping unresolved search hit", "url", url)
			continue
		}
		ranked = append(ranked, article)
	}

	metrics.SearchRequests.WithLabelValues("ok").Inc()
	s.logger.Debug("search complete", "query_len", len(query), "hits", len(ranked))
	return ranked, nil
}
