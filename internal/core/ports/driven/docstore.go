package driven

import (
	"context"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
type DocumentStore interface {
	// SaveDocument stores a document. Documents are immutable once
	// chunked; re-ingestion saves a new version under a new ID.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores the chunks of one document as a batch.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks of a document in ordinal order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	// Returns whether anything was removed.
	DeleteDocument(ctx context.Context, id string) (bool, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// Close releases resources.
	Close() error
}

// MetadataStore persists the document_id to metadata mapping as one
// human-readable JSON document for inspection and debugging.
type MetadataStore interface {
	// Put records metadata for a document.
	Put(ctx context.Context, documentID string, meta domain.Metadata) error

	// Get returns the metadata for a document.
	Get(ctx context.Context, documentID string) (domain.Metadata, error)

	// Delete removes the metadata entry for a document.
	Delete(ctx context.Context, documentID string) error

	// All returns the full mapping.
	All(ctx context.Context) (map[string]domain.Metadata, error)
}
