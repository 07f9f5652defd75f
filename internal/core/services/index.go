package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driving"
	"github.com/scholarsphere-labs/scholar-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService is the embedding/index store. It embeds chunks with the
// model selected for the document's language, persists them, and answers
// scoped nearest-neighbour queries.
//
// Add and Delete are single-writer; Search runs concurrently against a
// stable index.
type IndexService struct {
	embedders driven.EmbedderRegistry
	vectors   driven.VectorIndex
	docStore  driven.DocumentStore

	mu sync.RWMutex
}

// NewIndexService creates a new index service.
func NewIndexService(
	embedders driven.EmbedderRegistry,
	vectors driven.VectorIndex,
	docStore driven.DocumentStore,
) *IndexService {
	return &IndexService{
		embedders: embedders,
		vectors:   vectors,
		docStore:  docStore,
	}
}

// Add embeds and indexes the chunks of one document as an atomic batch.
// All embeddings are computed before anything is written; a failure on any
// write rolls the document back so it is never left partially indexed.
func (s *IndexService) Add(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc == nil || len(chunks) == 0 {
		return fmt.Errorf("index add: %w", domain.ErrInvalidInput)
	}

	logger.Section("Index Document")
	logger.Debug("Document: %s, chunks: %d, language: %s", doc.ID, len(chunks), doc.Meta.Language)

	embedder := s.embedders.ForLanguage(doc.Meta.Language)
	if embedder == nil {
		return fmt.Errorf("no embedder for language %q: %w", doc.Meta.Language, domain.ErrEmbeddingUnavailable)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Embedding backend failed: %v", err)
		return fmt.Errorf("embed %d chunks: %w: %v", len(chunks), domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks: %w",
			len(vectors), len(chunks), domain.ErrEmbeddingUnavailable)
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	doc.EmbeddingModel = embedder.ModelName()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		s.rollback(ctx, doc.ID)
		return fmt.Errorf("save chunks for %s: %w", doc.ID, err)
	}
	if err := s.vectors.Add(ctx, chunks); err != nil {
		s.rollback(ctx, doc.ID)
		return fmt.Errorf("index vectors for %s: %w", doc.ID, err)
	}

	logger.Info("Indexed %s: %d chunks with model %s", doc.ID, len(chunks), doc.EmbeddingModel)
	return nil
}

// rollback undoes a partial add. Called under the writer lock.
func (s *IndexService) rollback(ctx context.Context, documentID string) {
	if _, err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		logger.Warn("Rollback of %s failed: %v", documentID, err)
	}
	if _, err := s.vectors.Delete(ctx, documentID); err != nil {
		logger.Warn("Vector rollback of %s failed: %v", documentID, err)
	}
}

// Search embeds the query with the corpus model and returns the top-k
// passages by cosine similarity, restricted to opts.Scope when given.
// Zero hits is not an error: callers receive an empty slice.
func (s *IndexService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logger.Section("Similarity Search")
	logger.Debug("Query: %q, scope: %v, k: %d", query, opts.Scope, opts.TopK)

	k := opts.TopK
	if k <= 0 {
		k = 5
	}

	model, err := s.corpusModel(ctx, opts.Scope)
	if err != nil {
		return nil, err
	}
	if model == "" {
		// Nothing indexed in scope.
		logger.Debug("Empty corpus for scope %v", opts.Scope)
		return nil, nil
	}

	embedder := s.embedders.ForModel(model)
	if embedder == nil {
		return nil, fmt.Errorf("corpus indexed with %q but no such embedder is configured: %w",
			model, domain.ErrModelMismatch)
	}

	vector, err := embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("embed query: %w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	hits, err := s.vectors.Search(ctx, vector, opts.Scope, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	return s.hydrate(ctx, hits)
}

// corpusModel returns the embedding model shared by every document in
// scope. Mixed models in one scope are a caller error.
func (s *IndexService) corpusModel(ctx context.Context, scope []string) (string, error) {
	var docs []domain.Document
	if len(scope) == 0 {
		all, err := s.docStore.ListDocuments(ctx)
		if err != nil {
			return "", fmt.Errorf("list documents: %w", err)
		}
		docs = all
	} else {
		for _, id := range scope {
			doc, err := s.docStore.GetDocument(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return "", fmt.Errorf("get document %s: %w", id, err)
			}
			docs = append(docs, *doc)
		}
	}

	model := ""
	for i := range docs {
		if docs[i].EmbeddingModel == "" {
			continue
		}
		if model == "" {
			model = docs[i].EmbeddingModel
			continue
		}
		if docs[i].EmbeddingModel != model {
			return "", fmt.Errorf("scope mixes models %q and %q: %w",
				model, docs[i].EmbeddingModel, domain.ErrModelMismatch)
		}
	}
	return model, nil
}

// hydrate converts vector hits into passages with document metadata.
// Chunks deleted between search and hydration are skipped.
func (s *IndexService) hydrate(ctx context.Context, hits []driven.VectorHit) ([]domain.Passage, error) {
	passages := make([]domain.Passage, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}
		doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}
		passages = append(passages, domain.Passage{
			Chunk:      *chunk,
			Document:   *doc,
			Similarity: hit.Similarity,
		})
	}
	return passages, nil
}

// Delete removes everything indexed for a document.
func (s *IndexService) Delete(ctx context.Context, documentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removedDocs, err := s.docStore.DeleteDocument(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("delete document %s: %w", documentID, err)
	}
	removedVecs, err := s.vectors.Delete(ctx, documentID)
	if err != nil {
		return removedDocs, fmt.Errorf("delete vectors for %s: %w", documentID, err)
	}

	return removedDocs || removedVecs, nil
}
