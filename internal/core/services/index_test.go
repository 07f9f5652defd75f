package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/embedding"
	storagemem "github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/storage/memory"
	vectormem "github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/vector/memory"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing. Texts map
// to fixed vectors so similarity ordering is predictable.
type mockEmbedder struct {
	model    string
	vectors  map[string][]float32
	embedErr error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 1, 1}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }

func (m *mockEmbedder) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockCompletion implements driven.CompletionService for testing.
type mockCompletion struct {
	completeFunc   func(prompt, system string) (string, error)
	completeCalls  int
	summary        string
	summariseErr   error
	summariseCalls int
}

func (m *mockCompletion) Complete(_ context.Context, prompt, system string) (string, error) {
	m.completeCalls++
	if m.completeFunc != nil {
		return m.completeFunc(prompt, system)
	}
	return "mock answer", nil
}

func (m *mockCompletion) Summarise(_ context.Context, _ string, _ int) (string, error) {
	m.summariseCalls++
	if m.summariseErr != nil {
		return "", m.summariseErr
	}
	if m.summary != "" {
		return m.summary, nil
	}
	return "condensed history", nil
}

func (m *mockCompletion) ModelName() string { return "mock-llm" }

func (m *mockCompletion) Ping(_ context.Context) error { return nil }

func (m *mockCompletion) Close() error { return nil }

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (string, error) {
	return m.text, m.err
}

// failingDocStore wraps the in-memory store to force write failures.
type failingDocStore struct {
	*storagemem.DocumentStore
	chunksErr error
}

func (f *failingDocStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if f.chunksErr != nil {
		return f.chunksErr
	}
	return f.DocumentStore.SaveChunks(ctx, chunks)
}

// --- Test helpers ---

func singleEmbedderRegistry(e driven.EmbeddingService) *embedding.Registry {
	return embedding.NewRegistry(map[string]driven.EmbeddingService{
		embedding.DefaultKey: e,
	})
}

func testChunks(documentID string, texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:         documentID + "-chunk-" + text,
			DocumentID: documentID,
			Ordinal:    i,
			Text:       text,
		}
	}
	return chunks
}

func testDoc(id string) *domain.Document {
	return &domain.Document{
		ID:        id,
		Filename:  id + ".txt",
		Content:   "content of " + id,
		CreatedAt: time.Now(),
		Meta:      domain.Metadata{Language: LanguageEnglish},
	}
}

// --- Tests ---

func TestIndexService_Add(t *testing.T) {
	docStore := storagemem.NewDocumentStore()
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
	}}
	service := NewIndexService(singleEmbedderRegistry(embedder), vectormem.NewIndex(), docStore)
	ctx := context.Background()

	doc := testDoc("doc-1")
	err := service.Add(ctx, doc, testChunks("doc-1", "alpha", "beta"))

	require.NoError(t, err)
	assert.Equal(t, "mock-embed", doc.EmbeddingModel)

	stored, err := docStore.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "mock-embed", stored.EmbeddingModel)

	chunks, err := docStore.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, []float32{1, 0, 0}, chunks[0].Embedding)
}

func TestIndexService_Add_InvalidInput(t *testing.T) {
	service := NewIndexService(singleEmbedderRegistry(&mockEmbedder{}), vectormem.NewIndex(), storagemem.NewDocumentStore())
	ctx := context.Background()

	err := service.Add(ctx, nil, testChunks("doc-1", "alpha"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = service.Add(ctx, testDoc("doc-1"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexService_Add_EmbeddingUnavailable(t *testing.T) {
	docStore := storagemem.NewDocumentStore()
	embedder := &mockEmbedder{embedErr: errors.New("connection refused")}
	service := NewIndexService(singleEmbedderRegistry(embedder), vectormem.NewIndex(), docStore)
	ctx := context.Background()

	err := service.Add(ctx, testDoc("doc-1"), testChunks("doc-1", "alpha"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	// Nothing was written.
	_, err = docStore.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexService_Add_RollbackOnChunkFailure(t *testing.T) {
	docStore := &failingDocStore{
		DocumentStore: storagemem.NewDocumentStore(),
		chunksErr:     errors.New("disk full"),
	}
	service := NewIndexService(singleEmbedderRegistry(&mockEmbedder{}), vectormem.NewIndex(), docStore)
	ctx := context.Background()

	err := service.Add(ctx, testDoc("doc-1"), testChunks("doc-1", "alpha"))

	require.Error(t, err)

	// The partially written document was rolled back.
	_, err = docStore.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexService_Search(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"alpha":      {1, 0, 0},
		"beta":       {0, 1, 0},
		"find alpha": {1, 0, 0},
	}}
	service := NewIndexService(singleEmbedderRegistry(embedder), vectormem.NewIndex(), storagemem.NewDocumentStore())
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, testDoc("doc-1"), testChunks("doc-1", "alpha")))
	require.NoError(t, service.Add(ctx, testDoc("doc-2"), testChunks("doc-2", "beta")))

	passages, err := service.Search(ctx, "find alpha", domain.SearchOptions{TopK: 2})

	require.NoError(t, err)
	require.NotEmpty(t, passages)
	assert.Equal(t, "alpha", passages[0].Chunk.Text)
	assert.Equal(t, "doc-1", passages[0].Document.ID)
	assert.InDelta(t, 1.0, passages[0].Similarity, 1e-6)
}

func TestIndexService_Search_ScopeNeverLeaks(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"alpha":     {1, 0, 0},
		"beta":      {0, 1, 0},
		"find beta": {0, 1, 0},
	}}
	service := NewIndexService(singleEmbedderRegistry(embedder), vectormem.NewIndex(), storagemem.NewDocumentStore())
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, testDoc("doc-1"), testChunks("doc-1", "alpha")))
	require.NoError(t, service.Add(ctx, testDoc("doc-2"), testChunks("doc-2", "beta")))

	// The query matches doc-2 best, but the scope excludes it.
	passages, err := service.Search(ctx, "find beta", domain.SearchOptions{TopK: 10, Scope: []string{"doc-1"}})

	require.NoError(t, err)
	for _, p := range passages {
		assert.Equal(t, "doc-1", p.Document.ID)
	}
}

func TestIndexService_Search_EmptyCorpus(t *testing.T) {
	service := NewIndexService(singleEmbedderRegistry(&mockEmbedder{}), vectormem.NewIndex(), storagemem.NewDocumentStore())

	passages, err := service.Search(context.Background(), "anything", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestIndexService_Search_UnknownScopeIgnored(t *testing.T) {
	service := NewIndexService(singleEmbedderRegistry(&mockEmbedder{}), vectormem.NewIndex(), storagemem.NewDocumentStore())

	passages, err := service.Search(context.Background(), "anything", domain.SearchOptions{Scope: []string{"no-such-doc"}})

	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestIndexService_Search_ModelMismatch_MixedScope(t *testing.T) {
	docStore := storagemem.NewDocumentStore()
	ctx := context.Background()

	docA := testDoc("doc-a")
	docA.EmbeddingModel = "embed-a"
	docB := testDoc("doc-b")
	docB.EmbeddingModel = "embed-b"
	require.NoError(t, docStore.SaveDocument(ctx, docA))
	require.NoError(t, docStore.SaveDocument(ctx, docB))

	service := NewIndexService(singleEmbedderRegistry(&mockEmbedder{}), vectormem.NewIndex(), docStore)

	_, err := service.Search(ctx, "query", domain.SearchOptions{Scope: []string{"doc-a", "doc-b"}})

	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestIndexService_Search_ModelMismatch_UnknownModel(t *testing.T) {
	docStore := storagemem.NewDocumentStore()
	ctx := context.Background()

	doc := testDoc("doc-a")
	doc.EmbeddingModel = "retired-model"
	require.NoError(t, docStore.SaveDocument(ctx, doc))

	service := NewIndexService(singleEmbedderRegistry(&mockEmbedder{model: "current-model"}), vectormem.NewIndex(), docStore)

	_, err := service.Search(ctx, "query", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestIndexService_Search_EmbeddingUnavailable(t *testing.T) {
	docStore := storagemem.NewDocumentStore()
	ctx := context.Background()

	indexEmbedder := &mockEmbedder{}
	service := NewIndexService(singleEmbedderRegistry(indexEmbedder), vectormem.NewIndex(), docStore)
	require.NoError(t, service.Add(ctx, testDoc("doc-1"), testChunks("doc-1", "alpha")))

	indexEmbedder.embedErr = errors.New("backend down")
	_, err := service.Search(ctx, "query", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIndexService_Delete(t *testing.T) {
	service := NewIndexService(singleEmbedderRegistry(&mockEmbedder{}), vectormem.NewIndex(), storagemem.NewDocumentStore())
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, testDoc("doc-1"), testChunks("doc-1", "alpha")))

	removed, err := service.Delete(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = service.Delete(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, removed)

	passages, err := service.Search(ctx, "alpha", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, passages)
}
