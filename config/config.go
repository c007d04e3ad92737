// Package config loads the newsfeed service configuration from a YAML
// file, with defaults suitable for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds accepted in the sources list.
const (
	SourceTypeRSS    = "rss"
	SourceTypeReddit = "reddit"
)

// Config holds all settings required across the application.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Storage StorageConfig  `yaml:"storage"`
	AI      AIConfig       `yaml:"ai"`
	Ingest  IngestConfig   `yaml:"ingest"`
	Sources []SourceConfig `yaml:"sources"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig describes the two store locations.
type StorageConfig struct {
	DatabasePath string `yaml:"databasePath"`
	IndexPath    string `yaml:"indexPath"`
}

// AIConfig describes how to reach the model endpoints.
type AIConfig struct {
	EmbeddingHost   string        `yaml:"embeddingHost"`
	ClassifierHost  string        `yaml:"classifierHost"`
	EmbeddingModel  string        `yaml:"embeddingModel"`
	ClassifierModel string        `yaml:"classifierModel"`
	APIKey          string        `yaml:"apiKey"`
	Timeout         time.Duration `yaml:"timeout"`
}

// IngestConfig controls the periodic ingestion runner.
type IngestConfig struct {
	Interval time.Duration `yaml:"interval"`
	PoolSize int           `yaml:"poolSize"`
}

// SourceConfig describes one feed. Type "rss" requires a URL; type
// "reddit" requires a subreddit name.
type SourceConfig struct {
	Type      string `yaml:"type"`
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Subreddit string `yaml:"subreddit"`
}

// Default returns the development configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{
			DatabasePath: "data/articles.db",
			IndexPath:    "data/index",
		},
		AI: AIConfig{
			EmbeddingHost:   "http://localhost:11434/v1",
			ClassifierHost:  "http://localhost:11434/v1",
			EmbeddingModel:  "all-minilm",
			ClassifierModel: "qwen2.5:3b",
			APIKey:          "none",
			Timeout:         30 * time.Second,
		},
		Ingest: IngestConfig{Interval: 30 * time.Minute},
		Sources: []SourceConfig{
			{Type: SourceTypeRSS, Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index"},
			{Type: SourceTypeReddit, Name: "r/programming", Subreddit: "programming"},
		},
	}
}

// Load reads and validates the YAML configuration at path. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural requirements the YAML schema cannot express.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.databasePath is required")
	}
	if c.Storage.IndexPath == "" {
		return fmt.Errorf("storage.indexPath is required")
	}

	for i, source := range c.Sources {
		switch source.Type {
		case SourceTypeRSS:
			if source.URL == "" {
				return fmt.Errorf("sources[%d]: rss source requires a url", i)
			}
			if source.Name == "" {
				return fmt.Errorf("sources[%d]: rss source requires a name", i)
			}
		case SourceTypeReddit:
			if source.Subreddit == "" {
				return fmt.Errorf("sources[%d]: reddit source requires a subreddit", i)
			}
		default:
			return fmt.Errorf("sources[%d]: unknown source type %q", i, source.Type)
		}
	}
	return nil
}
