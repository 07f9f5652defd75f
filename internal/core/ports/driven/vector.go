package driven

import (
	"context"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

// VectorIndex provides cosine similarity search over chunk embeddings.
//
// Concurrency contract: Search may be called concurrently against a
// stable index; Add and Delete are mutually exclusive with each other.
type VectorIndex interface {
	// Add inserts every chunk's embedding as one batch. A failure must
	// leave none of the batch indexed.
	Add(ctx context.Context, chunks []domain.Chunk) error

	// Delete removes all vectors owned by the document.
	// Returns whether anything was removed.
	Delete(ctx context.Context, documentID string) (bool, error)

	// Search finds the k nearest chunks to the query vector by cosine
	// similarity, restricted to scope when non-empty. Ties are broken
	// by insertion order, earlier-indexed first.
	Search(ctx context.Context, query []float32, scope []string, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's owning document.
	DocumentID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
