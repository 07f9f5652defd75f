// Package memory provides an in-memory vector index for tests and
// small libraries.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	chunkID    string
	documentID string
	vector     []float32

	// order is the insertion sequence number, used to break score ties.
	order int
}

// Index is an in-memory brute-force cosine similarity index.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	next    int
}

// NewIndex creates an empty in-memory vector index.
func NewIndex() *Index {
	return &Index{}
}

// Add inserts every chunk's embedding as one batch. Validation happens
// before any mutation, so a failure leaves the index untouched.
func (idx *Index) Add(ctx context.Context, chunks []domain.Chunk) error {
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("memory index: chunk %s has no embedding", chunk.ID)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, chunk := range chunks {
		idx.entries = append(idx.entries, entry{
			chunkID:    chunk.ID,
			documentID: chunk.DocumentID,
			vector:     chunk.Embedding,
			order:      idx.next,
		})
		idx.next++
	}
	return nil
}

// Delete removes all vectors owned by the document.
func (idx *Index) Delete(ctx context.Context, documentID string) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0]
	removed := false
	for _, e := range idx.entries {
		if e.documentID == documentID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	idx.entries = kept
	return removed, nil
}

// Search finds the k nearest chunks by cosine similarity, restricted to
// scope when non-empty. Equal scores rank earlier-indexed chunks first.
func (idx *Index) Search(ctx context.Context, query []float32, scope []string, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	var scoped map[string]bool
	if len(scope) > 0 {
		scoped = make(map[string]bool, len(scope))
		for _, id := range scope {
			scoped[id] = true
		}
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type scored struct {
		hit   driven.VectorHit
		order int
	}
	var results []scored
	for _, e := range idx.entries {
		if scoped != nil && !scoped[e.documentID] {
			continue
		}
		results = append(results, scored{
			hit: driven.VectorHit{
				ChunkID:    e.chunkID,
				DocumentID: e.documentID,
				Similarity: Cosine(query, e.vector),
			},
			order: e.order,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].hit.Similarity != results[j].hit.Similarity {
			return results[i].hit.Similarity > results[j].hit.Similarity
		}
		return results[i].order < results[j].order
	})

	if len(results) > k {
		results = results[:k]
	}
	hits := make([]driven.VectorHit, len(results))
	for i, r := range results {
		hits[i] = r.hit
	}
	return hits, nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// Cosine computes cosine similarity between two vectors.
// Mismatched lengths or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
