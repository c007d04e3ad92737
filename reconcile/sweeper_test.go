package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/storage"
	"github.com/techpress/newsfeed/storage/badger"
)

// stubRepository implements storage.ArticleRepository with a fixed URL set.
type stubRepository struct {
	mu       sync.Mutex
	urls     map[string]struct{}
	failures int // number of GetByURLs calls that fail before succeeding
}

func newStubRepository(urls ...string) *stubRepository {
	set := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		set[u] = struct{}{}
	}
	return &stubRepository{urls: set}
}

func (r *stubRepository) Exists(ctx context.Context, url string) (bool, error) {
	_, ok := r.urls[url]
	return ok, nil
}

func (r *stubRepository) Save(ctx context.Context, article *core.Article) (*core.Article, error) {
	return article, nil
}

func (r *stubRepository) Get(ctx context.Context, id string) (*core.Article, error) {
	return nil, storage.ErrNotFound
}

func (r *stubRepository) List(ctx context.Context, category core.Category, limit, offset int) ([]*core.Article, error) {
	return nil, nil
}

func (r *stubRepository) GetByURLs(ctx context.Context, urls []string) ([]*core.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("database is locked")
	}
	var out []*core.Article
	for _, url := range urls {
		if _, ok := r.urls[url]; ok {
			out = append(out, &core.Article{URL: url})
		}
	}
	return out, nil
}

func (r *stubRepository) Close() error { return nil }

func newTestIndex(t *testing.T, urls ...string) storage.VectorIndex {
	t.Helper()
	idx, err := badger.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	for _, url := range urls {
		err := idx.Upsert(context.Background(), url, []float32{1, 0}, storage.VectorMeta{})
		require.NoError(t, err)
	}
	return idx
}

func TestSweeper_PurgesDanglingEntries(t *testing.T) {
	repo := newStubRepository("https://example.com/kept")
	index := newTestIndex(t, "https://example.com/kept", "https://example.com/dangling")

	s, err := NewSweeper(repo, index)
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Purged)
	assert.Equal(t, []string{"https://example.com/dangling"}, report.Dangling)

	urls, err := index.URLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/kept"}, urls)
}

func TestSweeper_DryRunLeavesIndexIntact(t *testing.T) {
	repo := newStubRepository()
	index := newTestIndex(t, "https://example.com/dangling")

	s, err := NewSweeper(repo, index, WithDryRun(true))
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Purged)
	assert.Equal(t, []string{"https://example.com/dangling"}, report.Dangling)
	assert.True(t, report.DryRun)

	urls, err := index.URLs(context.Background())
	require.NoError(t, err)
	assert.Len(t, urls, 1)
}

func TestSweeper_CleanIndex(t *testing.T) {
	repo := newStubRepository("https://example.com/a", "https://example.com/b")
	index := newTestIndex(t, "https://example.com/a", "https://example.com/b")

	s, err := NewSweeper(repo, index, WithBatchSize(1))
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 0, report.Purged)
	assert.Empty(t, report.Dangling)
}

func TestSweeper_RetriesRecordStore(t *testing.T) {
	repo := newStubRepository("https://example.com/kept")
	repo.failures = 1
	index := newTestIndex(t, "https://example.com/kept", "https://example.com/dangling")

	s, err := NewSweeper(repo, index)
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Purged)
}

func TestNewSweeper_Validation(t *testing.T) {
	index := newTestIndex(t)

	_, err := NewSweeper(nil, index)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewSweeper(newStubRepository(), nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		err := RetryWithBackoff(context.Background(), func() error {
			return errors.New("permanent")
		}, 2, time.Millisecond)
		assert.EqualError(t, err, "permanent")
	})

	t.Run("invalid max attempts", func(t *testing.T) {
		err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("respects cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RetryWithBackoff(ctx, func() error { return errors.New("x") }, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
