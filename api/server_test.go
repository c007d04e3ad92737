package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techpress/newsfeed/ai/mock"
	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/search"
	"github.com/techpress/newsfeed/storage"
	"github.com/techpress/newsfeed/storage/badger"
	"github.com/techpress/newsfeed/storage/sqlite"
)

type testEnv struct {
	router     *gin.Engine
	repository storage.ArticleRepository
	index      storage.VectorIndex
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "articles.db"))
	require.NoError(t, err)
	repo := sqlite.NewRepository(db, nil)
	t.Cleanup(func() { repo.Close() })

	index, err := badger.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	searcher, err := search.NewSearcher(repo, index, mock.NewMockProvider())
	require.NoError(t, err)

	handler := NewHandler(repo, searcher, nil)
	return &testEnv{
		router:     NewRouter(handler, nil),
		repository: repo,
		index:      index,
	}
}

// seed stores an article and indexes its embedding derived from the title.
func (e *testEnv) seed(t *testing.T, url, title string, category core.Category, published time.Time) *core.Article {
	t.Helper()
	ctx := context.Background()

	saved, err := e.repository.Save(ctx, &core.Article{
		URL:         url,
		Title:       title,
		Content:     "content for " + title,
		Category:    category,
		Source:      "test-feed",
		PublishedAt: published,
	})
	require.NoError(t, err)

	vector := mock.DeterministicVector(title+"\n\ncontent for "+title, mock.DefaultDimensions)
	err = e.index.Upsert(ctx, url, vector, storage.VectorMeta{
		ID:       saved.ID,
		Title:    saved.Title,
		Category: saved.Category,
	})
	require.NoError(t, err)
	return saved
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestGetArticle(t *testing.T) {
	env := newTestEnv(t)
	saved := env.seed(t, "https://example.com/a", "An Article", core.CategorySoftware, time.Now().UTC())

	rec := env.get(t, "/articles/"+saved.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[ArticleResponse](t, rec)
	assert.Equal(t, saved.ID, body.ID)
	assert.Equal(t, saved.URL, body.URL)
	assert.Equal(t, core.CategorySoftware.String(), body.Category)

	// The embedding never leaks into the response.
	assert.NotContains(t, rec.Body.String(), "embedding")
}

func TestGetArticleNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/articles/does-not-exist")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.Equal(t, "Article not found", body["error"])
}

func TestListArticles(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	env.seed(t, "https://example.com/oldest", "Oldest", core.CategorySoftware, base)
	env.seed(t, "https://example.com/newest", "Newest", core.CategoryCybersecurity, base.Add(2*time.Hour))
	env.seed(t, "https://example.com/middle", "Middle", core.CategorySoftware, base.Add(time.Hour))

	t.Run("default listing is published-desc", func(t *testing.T) {
		rec := env.get(t, "/articles")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[ListResponse](t, rec)
		require.Equal(t, 3, body.Count)
		assert.Equal(t, defaultListLimit, body.Limit)
		assert.Equal(t, "Newest", body.Articles[0].Title)
		assert.Equal(t, "Middle", body.Articles[1].Title)
		assert.Equal(t, "Oldest", body.Articles[2].Title)
	})

	t.Run("category filter", func(t *testing.T) {
		rec := env.get(t, "/articles?category=Software+%26+Development")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[ListResponse](t, rec)
		require.Equal(t, 2, body.Count)
		for _, a := range body.Articles {
			assert.Equal(t, core.CategorySoftware.String(), a.Category)
		}
	})

	t.Run("category filter is case-insensitive", func(t *testing.T) {
		rec := env.get(t, "/articles?category=cybersecurity")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, decode[ListResponse](t, rec).Count)
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := env.get(t, "/articles?category=Gardening")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Unknown category: Gardening", decode[map[string]string](t, rec)["error"])
	})

	t.Run("pagination", func(t *testing.T) {
		rec := env.get(t, "/articles?limit=1&offset=1")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[ListResponse](t, rec)
		require.Equal(t, 1, body.Count)
		assert.Equal(t, "Middle", body.Articles[0].Title)
	})

	t.Run("malformed limit", func(t *testing.T) {
		rec := env.get(t, "/articles?limit=zero")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("limit is capped", func(t *testing.T) {
		rec := env.get(t, "/articles?limit=5000")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, maxListLimit, decode[ListResponse](t, rec).Limit)
	})
}

func TestSearchArticles(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	env.seed(t, "https://example.com/go", "Go Generics Deep Dive", core.CategorySoftware, base)
	env.seed(t, "https://example.com/chips", "New GPU Architecture", core.CategoryHardware, base)

	t.Run("ranked results", func(t *testing.T) {
		// Query with the seeded embedding text so the match is exact.
		rec := env.get(t, "/articles/search?query="+
			"Go+Generics+Deep+Dive%0A%0Acontent+for+Go+Generics+Deep+Dive")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[SearchResponse](t, rec)
		require.GreaterOrEqual(t, body.Count, 1)
		assert.Equal(t, "https://example.com/go", body.Results[0].URL)
	})

	t.Run("missing query", func(t *testing.T) {
		rec := env.get(t, "/articles/search")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing query parameter", decode[map[string]string](t, rec)["error"])
	})

	t.Run("limit applies", func(t *testing.T) {
		rec := env.get(t, "/articles/search?query=anything&limit=1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, decode[SearchResponse](t, rec).Count)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// Generate at least one observed request first.
	env.get(t, "/health")

	rec := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "newsfeed_http_requests_total"))
}
