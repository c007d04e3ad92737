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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/techpress/newsfeed/ai"
	"github.com/techpress/newsfeed/ai/openai"
	"github.com/techpress/newsfeed/api"
	"github.com/techpress/newsfeed/config"
	"github.com/techpress/newsfeed/fetch"
	"github.com/techpress/newsfeed/ingest"
	"github.com/techpress/newsfeed/reconcile"
	"github.com/techpress/newsfeed/search"
	"github.com/techpress/newsfeed/storage/badger"
	"github.com/techpress/newsfeed/storage/sqlite"
)

func main() {
	app := &cli.App{
		Name:  "newsfeed",
		Usage: "Tech news aggregation with classification and semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"NEWSFEED_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"NEWSFEED_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and the periodic ingestion loop",
				Action: serveCommand,
			},
			{
				Name:   "ingest",
				Usage:  "Run a single ingestion pass over all configured sources and exit",
				Action: ingestCommand,
			},
			{
				Name:   "reconcile",
				Usage:  "Purge vector index entries that have no article record",
				Action: reconcileCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report dangling entries without deleting them",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of URLs resolved per record store query",
						Value: 200,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// stores bundles the opened storage backends.
type stores struct {
	repository *sqlite.Repository
	index      *badger.Index
}

func (s *stores) Close() {
	if err := s.repository.Close(); err != nil {
		slog.Error("error closing article repository", "err", err)
	}
	if err := s.index.Close(); err != nil {
		slog.Error("error closing vector index", "err", err)
	}
}

func openStores(cfg config.Config) (*stores, error) {
	db, err := sqlite.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening article database: %w", err)
	}
	repository := sqlite.NewRepository(db, nil)

	index, err := badger.Open(cfg.Storage.IndexPath, false)
	if err != nil {
		repository.Close()
		return nil, fmt.Errorf("opening vector index: %w", err)
	}

	return &stores{repository: repository, index: index}, nil
}

func newProvider(cfg config.Config) (ai.Provider, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithClassifierHost(cfg.AI.ClassifierHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithClassifierModel(cfg.AI.ClassifierModel),
		ai.WithAPIKey(cfg.AI.APIKey),
		ai.WithTimeout(cfg.AI.Timeout),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return openai.NewProvider(aiConfig)
}

func buildFetchers(cfg config.Config) []fetch.Fetcher {
	fetchers := make([]fetch.Fetcher, 0, len(cfg.Sources))
	for _, source := range cfg.Sources {
		switch source.Type {
		case config.SourceTypeReddit:
			fetchers = append(fetchers, fetch.NewRedditFetcher(source.Subreddit))
		case config.SourceTypeRSS:
			fetchers = append(fetchers, fetch.NewRSSFetcher(source.URL, source.Name))
		}
	}
	return fetchers
}

func newPipeline(cfg config.Config, s *stores, provider ai.Provider) (*ingest.Pipeline, error) {
	var opts []ingest.Option
	if cfg.Ingest.PoolSize > 0 {
		opts = append(opts, ingest.WithPoolSize(cfg.Ingest.PoolSize))
	}
	return ingest.NewPipeline(s.repository, s.index, provider, opts...)
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	s, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	pipeline, err := newPipeline(cfg, s, provider)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	searcher, err := search.NewSearcher(s.repository, s.index, provider)
	if err != nil {
		return err
	}

	handler := api.NewHandler(s.repository, searcher, nil)
	server := api.NewServer(cfg.Server.Addr, handler, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := ingest.NewRunner(pipeline, buildFetchers(cfg), cfg.Ingest.Interval, nil)
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("ingestion runner stopped", "err", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	select {
	case err := <-serverErr:
		stop()
		<-runnerDone
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "err", err)
	}
	<-runnerDone
	return nil
}

func ingestCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	s, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	pipeline, err := newPipeline(cfg, s, provider)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, fetcher := range buildFetchers(cfg) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report, err := pipeline.ProcessSource(ctx, fetcher)
		if err != nil {
			slog.Error("source failed", "source", fetcher.Source(), "err", err)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: fetched=%d saved=%d skipped=%d failed=%d\n",
			report.Source, report.Fetched, report.Saved, report.Skipped, report.Failed)
	}
	return nil
}

func reconcileCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	s, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	sweeper, err := reconcile.NewSweeper(s.repository, s.index,
		reconcile.WithDryRun(c.Bool("dry-run")),
		reconcile.WithBatchSize(c.Int("batch-size")),
	)
	if err != nil {
		return err
	}

	report, err := sweeper.Run(c.Context)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "scanned=%d dangling=%d purged=%d\n",
		report.Scanned, len(report.Dangling), report.Purged)
	if report.DryRun {
		for _, url := range report.Dangling {
			fmt.Fprintln(os.Stdout, url)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
