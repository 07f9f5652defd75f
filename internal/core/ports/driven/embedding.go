package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Any OpenAI-compatible inference server (Ollama, LM Studio)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// Recorded per document at index time; queries must embed with the
	// same model as the corpus they search.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbedderRegistry selects an embedding model by detected text language.
// A registry with a single entry is valid; lookups for unknown languages
// fall back to the default embedder.
type EmbedderRegistry interface {
	// ForLanguage returns the embedder configured for a language.
	ForLanguage(language string) EmbeddingService

	// ForModel returns the embedder whose ModelName matches, or nil.
	ForModel(model string) EmbeddingService
}
