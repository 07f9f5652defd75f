package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

const metadataFile = "metadata.json"

// MetadataStore keeps the document_id to metadata mapping in one JSON
// document so the whole library's bibliography is inspectable at a glance.
type MetadataStore struct {
	mu  sync.RWMutex
	dir string
}

// NewMetadataStore creates a metadata store rooted at dir.
func NewMetadataStore(dir string) (*MetadataStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create metadata dir: %w", err)
	}
	return &MetadataStore{dir: dir}, nil
}

func (s *MetadataStore) load() (map[string]domain.Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]domain.Metadata), nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var entries map[string]domain.Metadata
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if entries == nil {
		entries = make(map[string]domain.Metadata)
	}
	return entries, nil
}

func (s *MetadataStore) save(entries map[string]domain.Metadata) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, metadataFile), data); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// Put records metadata for a document.
func (s *MetadataStore) Put(_ context.Context, documentID string, meta domain.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[documentID] = meta
	return s.save(entries)
}

// Get returns the metadata for a document.
func (s *MetadataStore) Get(_ context.Context, documentID string) (domain.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.load()
	if err != nil {
		return domain.Metadata{}, err
	}
	meta, ok := entries[documentID]
	if !ok {
		return domain.Metadata{}, domain.ErrNotFound
	}
	return meta, nil
}

// Delete removes the metadata entry for a document.
func (s *MetadataStore) Delete(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[documentID]; !ok {
		return nil
	}
	delete(entries, documentID)
	return s.save(entries)
}

// All returns the full mapping.
func (s *MetadataStore) All(_ context.Context) (map[string]domain.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}
