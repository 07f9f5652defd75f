// Package chromem provides a persistent vector index backed by chromem-go,
// an embedded vector database with gob-file persistence.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// collectionName holds all chunk vectors. Per-document grouping lives in
// metadata, not in separate collections.
const collectionName = "chunks"

// metaDocumentID is the metadata key carrying the owning document.
const metaDocumentID = "document_id"

// Index stores chunk embeddings in a persistent chromem-go collection.
// Embeddings are always precomputed by the embedding service; chromem's
// own embedding hook is never used.
type Index struct {
	mu         sync.RWMutex
	db         *chromemgo.DB
	collection *chromemgo.Collection
}

// NewIndex opens (or creates) the persistent index at path.
// Compression keeps the on-disk gob files small.
func NewIndex(path string) (*Index, error) {
	db, err := chromemgo.NewPersistentDB(path, true)
	if err != nil {
		return nil, fmt.Errorf("chromem: open %s: %w", path, err)
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: collection %s: %w", collectionName, err)
	}
	return &Index{db: db, collection: collection}, nil
}

// Add inserts every chunk's embedding as one batch. Embeddings are
// validated up front so a failure leaves nothing indexed.
func (idx *Index) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromemgo.Document, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chromem: chunk %s has no embedding", chunk.ID)
		}
		docs = append(docs, chromemgo.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Embedding: chunk.Embedding,
			Metadata:  map[string]string{metaDocumentID: chunk.DocumentID},
		})
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		// Roll the partial batch back so a retry starts clean.
		ids := make([]string, len(chunks))
		for i, chunk := range chunks {
			ids[i] = chunk.ID
		}
		_ = idx.collection.Delete(ctx, nil, nil, ids...)
		return fmt.Errorf("chromem: add batch: %w", err)
	}
	return nil
}

// Delete removes all vectors owned by the document.
func (idx *Index) Delete(ctx context.Context, documentID string) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	before := idx.collection.Count()
	err := idx.collection.Delete(ctx, map[string]string{metaDocumentID: documentID}, nil)
	if err != nil {
		return false, fmt.Errorf("chromem: delete %s: %w", documentID, err)
	}
	return idx.collection.Count() < before, nil
}

// Search finds the k nearest chunks by cosine similarity, restricted to
// scope when non-empty.
//
// chromem's metadata filter is a conjunction, so a multi-document scope
// cannot be pushed down; scoped queries over-fetch and filter here.
func (idx *Index) Search(ctx context.Context, query []float32, scope []string, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	total := idx.collection.Count()
	if total == 0 {
		return nil, nil
	}

	fetch := k
	var scoped map[string]bool
	if len(scope) > 0 {
		scoped = make(map[string]bool, len(scope))
		for _, id := range scope {
			scoped[id] = true
		}
		fetch = total
	}
	if fetch > total {
		fetch = total
	}

	results, err := idx.collection.QueryEmbedding(ctx, query, fetch, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	hits := make([]driven.VectorHit, 0, k)
	for _, res := range results {
		docID := res.Metadata[metaDocumentID]
		if scoped != nil && !scoped[docID] {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    res.ID,
			DocumentID: docID,
			Similarity: float64(res.Similarity),
		})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

// Close is a no-op: the persistent database writes through on every
// mutation, so there is nothing left to flush.
func (idx *Index) Close() error {
	return nil
}
