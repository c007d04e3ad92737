package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/techpress/newsfeed/fetch"
)

const defaultInterval = 30 * time.Minute

// Runner drives the pipeline over a fixed set of sources on an interval.
// A pass runs immediately at startup so a fresh deployment serves content
// without waiting out the first interval.
type Runner struct {
	pipeline *Pipeline
	fetchers []fetch.Fetcher
	interval time.Duration
	logger   *slog.Logger
}

// NewRunner creates a runner over the given fetchers. A non-positive
// interval falls back to the default of 30 minutes.
func NewRunner(pipeline *Pipeline, fetchers []fetch.Fetcher, interval time.Duration, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		pipeline: pipeline,
		fetchers: fetchers,
		interval: interval,
		logger:   logger.With("component", "runner"),
	}
}

// Run blocks until ctx is cancelled, executing one ingestion pass
// immediately and then one per interval.
func (r *Runner) Run(ctx context.Context) error {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single ingestion pass over every source. Sources are
// isolated: one source failing to fetch does not stop the others.
func (r *Runner) RunOnce(ctx context.Context) {
	r.logger.Info("starting ingestion pass", "sources", len(r.fetchers))

	for _, fetcher := range r.fetchers {
		if ctx.Err() != nil {
			return
		}
		report, err := r.pipeline.ProcessSource(ctx, fetcher)
		if err != nil {
			r.logger.Error("source fetch failed", "source", fetcher.Source(), "err", err)
			continue
		}
		r.logger.Debug("source pass complete",
			"source", report.Source,
			"saved", report.Saved,
			"skipped", report.Skipped,
			"failed", report.Failed)
	}
}
