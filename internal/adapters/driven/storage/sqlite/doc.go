// Package sqlite provides the SQLite-backed document store.
//
// The store uses modernc.org/sqlite (pure Go, no CGO) with WAL mode for
// concurrent readers. Embeddings are stored as little-endian float32
// blobs alongside chunk content so the whole library survives restarts.
package sqlite
