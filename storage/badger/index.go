// Package badger implements storage.VectorIndex on BadgerDB.
//
// The index stores one entry per article URL: the embedding vector plus
// minimal display metadata. Search is a brute-force scan with dot-product
// scoring, which assumes unit-normalized vectors and stays fast at the
// corpus sizes a single feed deployment produces.
package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/techpress/newsfeed/storage"
)

// Index wraps a BadgerDB instance and provides vector index operations.
type Index struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB database at the specified path, creating the
// directory if it doesn't exist. With inMemory set, path is ignored and
// nothing is persisted; used by tests.
func Open(filePath string, inMemory bool) (*Index, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(filePath)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Index{
		db:     db,
		logger: slog.Default().With("component", "vector_index"),
	}, nil
}

// Close closes the underlying database.
func (idx *Index) Close() error {
	return idx.db.Close()
}

func (idx *Index) Upsert(ctx context.Context, url string, vector []float32, meta storage.VectorMeta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(vector) == 0 {
		return fmt.Errorf("upserting %q: %w", url, storage.ErrMissingVector)
	}
	if idx.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	value := marshalVectorEntry(vectorEntry{
		URL:    url,
		Vector: vector,
		Meta:   meta,
	})
	err := idx.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeVectorKey(url), value)
	})
	if err != nil {
		return fmt.Errorf("upserting vector for %q: %w", url, err)
	}

	idx.logger.Debug("upserted vector", "url", url, "dimensions", len(vector))
	return nil
}

// scoredURL pairs a URL with its similarity to the query vector.
type scoredURL struct {
	url   string
	score float32
}

func (idx *Index) Search(ctx context.Context, vector []float32, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, storage.ErrMissingVector
	}
	if idx.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var scored []scoredURL
	err := idx.db.View(func(tx *badger.Txn) error {
		return idx.scanEntries(tx, func(e vectorEntry) {
			scored = append(scored, scoredURL{
				url:   e.URL,
				score: dotProduct(vector, e.Vector),
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("searching vectors: %w", err)
	}

	// Sort by similarity descending
	slices.SortFunc(scored, func(a, b scoredURL) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	urls := make([]string, len(scored))
	for i, s := range scored {
		urls[i] = s.url
	}
	return urls, nil
}

func (idx *Index) Delete(ctx context.Context, urls ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	if idx.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	err := idx.db.Update(func(tx *badger.Txn) error {
		for _, url := range urls {
			if err := tx.Delete(makeVectorKey(url)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}

	idx.logger.Debug("deleted vectors", "count", len(urls))
	return nil
}

func (idx *Index) URLs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var urls []string
	err := idx.db.View(func(tx *badger.Txn) error {
		return idx.scanEntries(tx, func(e vectorEntry) {
			urls = append(urls, e.URL)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing indexed urls: %w", err)
	}
	return urls, nil
}

// scanEntries iterates every vector entry and passes it to fn.
func (idx *Index) scanEntries(tx *badger.Txn, fn func(vectorEntry)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(vectorEntryPrefix)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var entry vectorEntry
		err := iter.Item().Value(func(val []byte) error {
			var err error
			entry, err = unmarshalVectorEntry(val)
			return err
		})
		if err != nil {
			return err
		}
		fn(entry)
	}
	return nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
