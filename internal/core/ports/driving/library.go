package driving

import (
	"context"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

// LibraryService manages the document library: ingestion, listing, removal.
type LibraryService interface {
	// Ingest extracts, chunks and indexes the file at path.
	// Returns the created document.
	Ingest(ctx context.Context, path string) (*domain.Document, error)

	// Remove deletes a document, its chunks and its vectors.
	// Returns whether anything was removed.
	Remove(ctx context.Context, documentID string) (bool, error)

	// List returns the ingested documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Metadata returns the recorded metadata for a document.
	Metadata(ctx context.Context, documentID string) (domain.Metadata, error)
}

// IndexService is the embedding/index store: it turns chunks into vectors
// and answers scoped nearest-neighbour queries.
type IndexService interface {
	// Add embeds and indexes the chunks of one document as an atomic batch.
	Add(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// Search embeds the query and returns the top-k passages by cosine
	// similarity, optionally restricted to a document scope.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Passage, error)

	// Delete removes everything indexed for a document.
	Delete(ctx context.Context, documentID string) (bool, error)
}
