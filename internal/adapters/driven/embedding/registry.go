// Package embedding provides the language-keyed registry of embedding
// backends. Ingestion routes a document to the embedder configured for
// its detected language; queries route by the corpus's recorded model.
package embedding

import (
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.EmbedderRegistry = (*Registry)(nil)

// DefaultKey is the registry key consulted when a language has no
// dedicated embedder.
const DefaultKey = "default"

// Registry maps language codes to embedding services.
type Registry struct {
	embedders map[string]driven.EmbeddingService
}

// NewRegistry creates a registry from a language-to-embedder map.
// The map should contain a DefaultKey entry; without one, unknown
// languages resolve to nil.
func NewRegistry(embedders map[string]driven.EmbeddingService) *Registry {
	if embedders == nil {
		embedders = make(map[string]driven.EmbeddingService)
	}
	return &Registry{embedders: embedders}
}

// ForLanguage returns the embedder for a language, falling back to the
// default entry.
func (r *Registry) ForLanguage(language string) driven.EmbeddingService {
	if svc, ok := r.embedders[language]; ok {
		return svc
	}
	return r.embedders[DefaultKey]
}

// ForModel returns the embedder whose model name matches, or nil.
func (r *Registry) ForModel(model string) driven.EmbeddingService {
	for _, svc := range r.embedders {
		if svc.ModelName() == model {
			return svc
		}
	}
	return nil
}

// Close closes every registered embedder, returning the first error.
func (r *Registry) Close() error {
	var first error
	closed := make(map[driven.EmbeddingService]bool)
	for _, svc := range r.embedders {
		if closed[svc] {
			continue
		}
		closed[svc] = true
		if err := svc.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
