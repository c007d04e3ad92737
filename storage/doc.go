// Package storage defines the persistence capability interfaces of the
// newsfeed service and their shared sentinel errors.
//
// Two stores back the system:
//
//   - ArticleRepository (storage/sqlite): the relational record store and
//     source of truth for article existence and content
//   - VectorIndex (storage/badger): the similarity index, a derived and
//     rebuildable projection keyed by article URL
//
// No transaction spans both stores. The ingestion pipeline writes the
// vector index before the record store, so a search can never return a
// URL the record store cannot resolve in steady state; the read path and
// the reconcile sweep handle the crash window in between.
package storage
