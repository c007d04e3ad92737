package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techpress/newsfeed/ai/mock"
	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/storage"
	"github.com/techpress/newsfeed/storage/badger"
)

// urlRepository implements storage.ArticleRepository for testing.
type urlRepository struct {
	mu    sync.Mutex
	byURL map[string]*core.Article
}

func newURLRepository() *urlRepository {
	return &urlRepository{byURL: make(map[string]*core.Article)}
}

func (r *urlRepository) put(article *core.Article) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byURL[article.URL] = article
}

func (r *urlRepository) Exists(ctx context.Context, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byURL[url]
	return ok, nil
}

func (r *urlRepository) Save(ctx context.Context, article *core.Article) (*core.Article, error) {
	r.put(article)
	return article, nil
}

func (r *urlRepository) Get(ctx context.Context, id string) (*core.Article, error) {
	return nil, storage.ErrNotFound
}

func (r *urlRepository) List(ctx context.Context, category core.Category, limit, offset int) ([]*core.Article, error) {
	return nil, nil
}

func (r *urlRepository) GetByURLs(ctx context.Context, urls []string) ([]*core.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*core.Article
	// Deliberately reversed relative to the request to prove the searcher
	// re-imposes the index ranking.
	for i := len(urls) - 1; i >= 0; i-- {
		if a, ok := r.byURL[urls[i]]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *urlRepository) Close() error { return nil }

func article(url, title string) *core.Article {
	return &core.Article{
		ID:          "id-" + url,
		URL:         url,
		Title:       title,
		Category:    core.CategorySoftware,
		Source:      "test-feed",
		PublishedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestIndex(t *testing.T) storage.VectorIndex {
	t.Helper()
	idx, err := badger.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSearcher_RankingFollowsIndexOrder(t *testing.T) {
	repo := newURLRepository()
	index := newTestIndex(t)
	provider := mock.NewMockProvider()
	ctx := context.Background()

	// Index three articles with vectors derived from their own text, then
	// query with one article's exact text so its vector ranks first.
	texts := map[string]string{
		"https://example.com/go":   "go compiler internals",
		"https://example.com/rust": "rust borrow checker",
		"https://example.com/zig":  "zig comptime metaprogramming",
	}
	for url, text := range texts {
		repo.put(article(url, text))
		err := index.Upsert(ctx, url, mock.DeterministicVector(text, mock.DefaultDimensions), storage.VectorMeta{})
		require.NoError(t, err)
	}

	s, err := NewSearcher(repo, index, provider)
	require.NoError(t, err)

	results, err := s.Search(ctx, "rust borrow checker", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "https://example.com/rust", results[0].URL)
}

func TestSearcher_DropsDanglingIndexEntries(t *testing.T) {
	repo := newURLRepository()
	index := newTestIndex(t)
	ctx := context.Background()

	repo.put(article("https://example.com/present", "present article"))
	for _, url := range []string{"https://example.com/present", "https://example.com/dangling"} {
		err := index.Upsert(ctx, url, mock.DeterministicVector(url, mock.DefaultDimensions), storage.VectorMeta{})
		require.NoError(t, err)
	}

	s, err := NewSearcher(repo, index, mock.NewMockProvider())
	require.NoError(t, err)

	results, err := s.Search(ctx, "anything", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com/present", results[0].URL)
}

func TestSearcher_EmptyIndex(t *testing.T) {
	s, err := NewSearcher(newURLRepository(), newTestIndex(t), mock.NewMockProvider())
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearcher_EmptyQuery(t *testing.T) {
	s, err := NewSearcher(newURLRepository(), newTestIndex(t), mock.NewMockProvider())
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearcher_EmbedderError(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockClassifier())

	s, err := NewSearcher(newURLRepository(), newTestIndex(t), provider)
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "anything", 10)
	assert.Error(t, err)
}

func TestNewSearcher_Validation(t *testing.T) {
	repo := newURLRepository()
	index := newTestIndex(t)
	provider := mock.NewMockProvider()

	_, err := NewSearcher(nil, index, provider)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewSearcher(repo, nil, provider)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewSearcher(repo, index, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}
