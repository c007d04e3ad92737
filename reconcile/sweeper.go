// Package reconcile repairs drift between the vector index and the record
// store. The pipeline writes the index before the record store, so a crash
// between the two writes leaves an index entry with no matching article.
// The sweeper finds and purges those dangling entries.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/techpress/newsfeed/metrics"
	"github.com/techpress/newsfeed/storage"
)

const (
	defaultBatchSize      = 200
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// Sweeper scans the vector index and removes entries whose URL has no
// article record.
type Sweeper struct {
	repository storage.ArticleRepository
	index      storage.VectorIndex
	batchSize  int
	dryRun     bool
	logger     *slog.Logger
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithBatchSize sets how many URLs are resolved against the record store
// per query. Default is 200.
func WithBatchSize(size int) Option {
	return func(s *Sweeper) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithDryRun reports dangling entries without deleting them.
func WithDryRun(dryRun bool) Option {
	return func(s *Sweeper) {
		s.dryRun = dryRun
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger.With("component", "sweeper")
		}
	}
}

// NewSweeper creates a new sweeper.
func NewSweeper(repository storage.ArticleRepository, index storage.VectorIndex, opts ...Option) (*Sweeper, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	s := &Sweeper{
		repository: repository,
		index:      index,
		batchSize:  defaultBatchSize,
		logger:     slog.Default().With("component", "sweeper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Report summarizes one sweep.
type Report struct {
	Scanned  int
	Purged   int
	Dangling []string // URLs found without a record, purged unless dry-run
	DryRun   bool
}

// Run executes one full sweep over the index.
func (s *Sweeper) Run(ctx context.Context) (*Report, error) {
	urls, err := s.index.URLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indexed urls: %w", err)
	}

	report := &Report{Scanned: len(urls), DryRun: s.dryRun}

	for start := 0; start < len(urls); start += s.batchSize {
		end := start + s.batchSize
		if end > len(urls) {
			end = len(urls)
		}
		batch := urls[start:end]

		dangling, err := s.findDangling(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(dangling) == 0 {
			continue
		}

		report.Dangling = append(report.Dangling, dangling...)
		if s.dryRun {
			continue
		}

		if err := s.index.Delete(ctx, dangling...); err != nil {
			return nil, fmt.Errorf("purging dangling entries: %w", err)
		}
		report.Purged += len(dangling)
		metrics.DanglingVectorsPurged.Add(float64(len(dangling)))
	}

	s.logger.Info("sweep complete",
		"scanned", report.Scanned,
		"dangling", len(report.Dangling),
		"purged", report.Purged,
		"dry_run", report.DryRun)
	return report, nil
}

// findDangling returns the URLs of batch that have no article record. The
// record store lookup is retried; ingestion may hold the write lock briefly.
func (s *Sweeper) findDangling(ctx context.Context, batch []string) ([]string, error) {
	present := make(map[string]struct{}, len(batch))
	err := RetryWithBackoff(ctx, func() error {
		found, err := s.repository.GetByURLs(ctx, batch)
		if err != nil {
			return err
		}
		clear(present)
		for _, a := range found {
			present[a.URL] = struct{}{}
		}
		return nil
	}, defaultMaxAttempts, defaultRetryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("resolving batch against record store: %w", err)
	}

	var dangling []string
	for _, url := range batch {
		if _, ok := present[url]; !ok {
			dangling = append(dangling, url)
		}
	}
	return dangling, nil
}
