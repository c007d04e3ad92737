package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/storage"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndex_UpsertAndSearch(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	entries := map[string][]float32{
		"https://example.com/a": {1, 0, 0},
		"https://example.com/b": {0, 1, 0},
		"https://example.com/c": {0.9, 0.1, 0},
	}
	for url, vec := range entries {
		err := idx.Upsert(ctx, url, vec, storage.VectorMeta{
			ID:       "id-" + url,
			Title:    "title",
			Category: core.CategorySoftware,
		})
		require.NoError(t, err)
	}

	urls, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "https://example.com/a", urls[0])
	assert.Equal(t, "https://example.com/c", urls[1])
}

func TestIndex_SearchSmallerThanLimit(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "https://example.com/only", []float32{1, 0}, storage.VectorMeta{}))

	urls, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/only"}, urls)
}

func TestIndex_UpsertReplacesEntry(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	url := "https://example.com/a"
	require.NoError(t, idx.Upsert(ctx, url, []float32{1, 0}, storage.VectorMeta{}))
	require.NoError(t, idx.Upsert(ctx, url, []float32{0, 1}, storage.VectorMeta{}))

	urls, err := idx.URLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{url}, urls)

	// The replaced vector now points the other way.
	got, err := idx.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{url}, got)
}

func TestIndex_UpsertMissingVector(t *testing.T) {
	idx := newTestIndex(t)

	err := idx.Upsert(context.Background(), "https://example.com/a", nil, storage.VectorMeta{})
	assert.ErrorIs(t, err, storage.ErrMissingVector)
}

func TestIndex_Delete(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "https://example.com/a", []float32{1, 0}, storage.VectorMeta{}))
	require.NoError(t, idx.Upsert(ctx, "https://example.com/b", []float32{0, 1}, storage.VectorMeta{}))

	// Deleting a missing URL alongside a present one is not an error.
	err := idx.Delete(ctx, "https://example.com/a", "https://example.com/missing")
	require.NoError(t, err)

	urls, err := idx.URLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/b"}, urls)
}

func TestIndex_EmptySearch(t *testing.T) {
	idx := newTestIndex(t)

	urls, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestVectorEntryRoundTrip(t *testing.T) {
	entry := vectorEntry{
		URL:    "https://example.com/article",
		Vector: []float32{0.5, -0.25, 0.125},
		Meta: storage.VectorMeta{
			ID:       "abc-123",
			Title:    "An Article",
			Category: core.CategoryCybersecurity,
		},
	}

	decoded, err := unmarshalVectorEntry(marshalVectorEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestUnmarshalVectorEntryCorrupt(t *testing.T) {
	_, err := unmarshalVectorEntry([]byte{0xff, 0x01})
	assert.ErrorIs(t, err, storage.ErrSerializationFailed)
}
