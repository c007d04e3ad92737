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

// Package ingest implements the article processing pipeline: fetch output
// goes in, deduplicated, classified, embedded and persisted articles come
// out.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/techpress/newsfeed/ai"
	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/fetch"
	"github.com/techpress/newsfeed/metrics"
	"github.com/techpress/newsfeed/storage"
)

// Pipeline orchestrates ingestion of raw articles. It deduplicates by URL,
// classifies into the closed category set, generates an embedding, and
// writes the vector index before the record store.
type Pipeline struct {
	repository storage.ArticleRepository
	index      storage.VectorIndex
	provider   ai.Provider
	pool       *ants.Pool
	logger     *slog.Logger

	// inflight serializes concurrent processing of the same URL within a
	// single batch, before the record store can answer Exists for it.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent article processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "pipeline")
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.ArticleRepository,
	index storage.VectorIndex,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		index:      index,
		provider:   provider,
		pool:       pool,
		logger:     slog.Default().With("component", "pipeline"),
		inflight:   make(map[string]struct{}),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// ProcessSource fetches a source and runs every raw article through the
// pipeline on the worker pool. Per-article failures are recorded in the
// report, not returned; an error means the fetch itself failed.
func (p *Pipeline) ProcessSource(ctx context.Context, fetcher fetch.Fetcher) (*SourceReport, error) {
	source := fetcher.Source()
	started := time.Now()

	raws, err := fetcher.Fetch(ctx)
	if err != nil {
		metrics.ArticlesFetched.WithLabelValues(source, "error").Inc()
		return nil, err
	}
	metrics.ArticlesFetched.WithLabelValues(source, "ok").Add(float64(len(raws)))

	report := &SourceReport{Source: source, Fetched: len(raws)}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, raw := range raws {
		raw := raw
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			result := p.ProcessArticle(ctx, raw)
			mu.Lock()
			report.add(result)
			mu.Unlock()
		})
		if err != nil {
			// Pool is released; process inline so the report stays complete.
			result := p.ProcessArticle(ctx, raw)
			mu.Lock()
			report.add(result)
			mu.Unlock()
			wg.Done()
		}
	}
	wg.Wait()

	metrics.IngestRunDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
	p.logger.Info("processed source",
		"source", source,
		"fetched", report.Fetched,
		"saved", report.Saved,
		"skipped", report.Skipped,
		"failed", report.Failed)
	return report, nil
}

// ProcessArticle runs one raw article through the full pipeline. It never
// panics or returns; every path ends in a Result.
func (p *Pipeline) ProcessArticle(ctx context.Context, raw core.RawArticle) Result {
	result := p.processArticle(ctx, raw)
	metrics.ArticlesProcessed.WithLabelValues(raw.Source, string(result.Outcome)).Inc()
	return result
}

func (p *Pipeline) processArticle(ctx context.Context, raw core.RawArticle) Result {
	if err := raw.Validate(); err != nil {
		p.logger.Warn("dropping invalid article", "url", raw.URL, "err", err)
		return Result{URL: raw.URL, Outcome: OutcomeFailed, Reason: ReasonValidation, Err: err}
	}

	if !p.acquire(raw.URL) {
		return Result{URL: raw.URL, Outcome: OutcomeSkipped, Reason: ReasonInFlight}
	}
	defer p.release(raw.URL)

	exists, err := p.repository.Exists(ctx, raw.URL)
	if err != nil {
		return Result{URL: raw.URL, Outcome: OutcomeFailed, Reason: ReasonStorage, Err: err}
	}
	if exists {
		p.logger.Debug("skipping known article", "url", raw.URL)
		return Result{URL: raw.URL, Outcome: OutcomeSkipped, Reason: ReasonDuplicate}
	}

	category := p.classify(ctx, raw)

	text := embeddingText(raw)
	vector, err := p.provider.Embedder().EmbedText(ctx, text)
	if err != nil {
		p.logger.Error("embedding failed", "url", raw.URL, "err", err)
		return Result{URL: raw.URL, Outcome: OutcomeFailed, Reason: ReasonEmbedding, Err: err}
	}
	if len(vector) == 0 {
		p.logger.Error("embedder returned empty vector", "url", raw.URL)
		return Result{URL: raw.URL, Outcome: OutcomeFailed, Reason: ReasonEmbedding, Err: storage.ErrMissingVector}
	}

	article := &core.Article{
		ID:          uuid.NewString(),
		URL:         raw.URL,
		Title:       raw.Title,
		Content:     raw.Content,
		Category:    category,
		Source:      raw.Source,
		PublishedAt: raw.PublishedAt,
		Metadata:    raw.Meta(),
		Embedding:   vector,
	}

	// Index before saving. A crash between the two leaves a dangling index
	// entry, which search drops and reconcile purges; the reverse order
	// would leave a stored article that search can never surface.
	err = p.index.Upsert(ctx, article.URL, vector, storage.VectorMeta{
		ID:       article.ID,
		Title:    article.Title,
		Category: article.Category,
	})
	if err != nil {
		return Result{URL: raw.URL, Outcome: OutcomeFailed, Reason: ReasonIndex, Err: err}
	}

	saved, err := p.repository.Save(ctx, article)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateURL) {
			// Lost a race with another writer. The index entry now points at
			// the winner's URL, which is the correct state.
			p.logger.Debug("lost save race", "url", raw.URL)
			return Result{URL: raw.URL, Outcome: OutcomeSkipped, Reason: ReasonDuplicate}
		}
		if delErr := p.index.Delete(ctx, article.URL); delErr != nil {
			p.logger.Error("failed to roll back index entry", "url", raw.URL, "err", delErr)
		}
		return Result{URL: raw.URL, Outcome: OutcomeFailed, Reason: ReasonStorage, Err: err}
	}

	p.logger.Info("ingested article",
		"url", saved.URL,
		"id", saved.ID,
		"category", saved.Category,
		"source", saved.Source)
	return Result{URL: saved.URL, Outcome: OutcomeSaved, ArticleID: saved.ID, Category: saved.Category}
}

// classify maps the article text to a category. Any classification error is
// absorbed into CategoryOther so a flaky model never drops an article.
func (p *Pipeline) classify(ctx context.Context, raw core.RawArticle) core.Category {
	text := ai.Truncate(classificationText(raw), ai.ClassifyMaxChars)

	category, err := p.provider.Classifier().Classify(ctx, text)
	if err != nil {
		kind := "unknown"
		var cerr *ai.ClassificationError
		if errors.As(err, &cerr) {
			kind = string(cerr.Kind)
		}
		metrics.ClassificationFallbacks.WithLabelValues(kind).Inc()
		p.logger.Warn("classification failed, falling back",
			"url", raw.URL,
			"kind", kind,
			"err", err)
		return core.CategoryOther
	}
	return category
}

func classificationText(raw core.RawArticle) string {
	if raw.Content == "" {
		return raw.Title
	}
	return raw.Title + "\n\n" + raw.Content
}

func embeddingText(raw core.RawArticle) string {
	return classificationText(raw)
}

func (p *Pipeline) acquire(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.inflight[url]; ok {
		return false
	}
	p.inflight[url] = struct{}{}
	return true
}

func (p *Pipeline) release(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, url)
}
