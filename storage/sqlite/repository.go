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

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/storage"
)

var articleColumns = []string{
	"id", "url", "title", "content", "category", "source",
	"published_at", "created_at", "metadata", "embedding",
}

// Repository implements storage.ArticleRepository on a SQLite database.
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ storage.ArticleRepository = (*Repository)(nil)

// NewRepository creates a Repository over an opened database. A nil logger
// falls back to slog.Default().
func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger.With("component", "article_repository"),
		now:    time.Now,
	}
}

func (r *Repository) Exists(ctx context.Context, url string) (bool, error) {
	query, args, err := sq.Select("1").
		From("articles").
		Where(sq.Eq{"url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building exists query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking url existence: %w", err)
	}
	return true, nil
}

func (r *Repository) Save(ctx context.Context, article *core.Article) (*core.Article, error) {
	saved := *article
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = r.now().UTC()
	}

	metadata, err := json.Marshal(saved.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding metadata: %v", storage.ErrSerializationFailed, err)
	}

	var embedding any
	if len(saved.Embedding) > 0 {
		encoded, err := json.Marshal(saved.Embedding)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding embedding: %v", storage.ErrSerializationFailed, err)
		}
		embedding = string(encoded)
	}

	query, args, err := sq.Insert("articles").
		Columns(articleColumns...).
		Values(
			saved.ID, saved.URL, saved.Title, saved.Content,
			string(saved.Category), saved.Source,
			saved.PublishedAt.UTC().UnixMicro(), saved.CreatedAt.UnixMicro(),
			string(metadata), embedding,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("saving article %q: %w", saved.URL, storage.ErrDuplicateURL)
		}
		return nil, fmt.Errorf("saving article: %w", err)
	}

	r.logger.Debug("saved article",
		"id", saved.ID,
		"url", saved.URL,
		"category", saved.Category)
	return &saved, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*core.Article, error) {
	query, args, err := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get query: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting article %q: %w", id, err)
	}
	return article, nil
}

func (r *Repository) List(ctx context.Context, category core.Category, limit, offset int) ([]*core.Article, error) {
	builder := sq.Select(articleColumns...).
		From("articles").
		OrderBy("published_at DESC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if category != "" {
		builder = builder.Where(sq.Eq{"category": string(category)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *Repository) GetByURLs(ctx context.Context, urls []string) ([]*core.Article, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"url": urls}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get_by_urls query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("getting articles by url: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*core.Article, error) {
	var (
		article     core.Article
		category    string
		publishedAt int64
		createdAt   int64
		metadata    string
		embedding   sql.NullString
	)

	err := row.Scan(
		&article.ID, &article.URL, &article.Title, &article.Content,
		&category, &article.Source, &publishedAt, &createdAt,
		&metadata, &embedding,
	)
	if err != nil {
		return nil, err
	}

	article.Category = core.Category(category)
	article.PublishedAt = time.UnixMicro(publishedAt).UTC()
	article.CreatedAt = time.UnixMicro(createdAt).UTC()

	if metadata != "" && metadata != "{}" {
		if err := json.Unmarshal([]byte(metadata), &article.Metadata); err != nil {
			return nil, fmt.Errorf("%w: decoding metadata: %v", storage.ErrSerializationFailed, err)
		}
	}
	if embedding.Valid && embedding.String != "" {
		if err := json.Unmarshal([]byte(embedding.String), &article.Embedding); err != nil {
			return nil, fmt.Errorf("%w: decoding embedding: %v", storage.ErrSerializationFailed, err)
		}
	}
	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]*core.Article, error) {
	var articles []*core.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}
	return articles, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
