package memory

import (
	"context"
	"sync"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is an in-memory implementation of driven.MetadataStore.
type MetadataStore struct {
	mu      sync.RWMutex
	entries map[string]domain.Metadata
}

// NewMetadataStore creates a new in-memory metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{entries: make(map[string]domain.Metadata)}
}

// Put records metadata for a document.
func (s *MetadataStore) Put(_ context.Context, documentID string, meta domain.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[documentID] = meta
	return nil
}

// Get returns the metadata for a document.
func (s *MetadataStore) Get(_ context.Context, documentID string) (domain.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.entries[documentID]
	if !ok {
		return domain.Metadata{}, domain.ErrNotFound
	}
	return meta, nil
}

// Delete removes the metadata entry for a document.
func (s *MetadataStore) Delete(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, documentID)
	return nil
}

// All returns the full mapping.
func (s *MetadataStore) All(_ context.Context) (map[string]domain.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make(map[string]domain.Metadata, len(s.entries))
	for id, meta := range s.entries {
		copied[id] = meta
	}
	return copied, nil
}
