package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// Ensure ProjectStore implements the interface.
var _ driven.ProjectStore = (*ProjectStore)(nil)

// ProjectStore is an in-memory implementation of driven.ProjectStore.
type ProjectStore struct {
	mu          sync.RWMutex
	projects    map[string]domain.Project
	connections domain.Connections
}

// NewProjectStore creates a new in-memory project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		projects:    make(map[string]domain.Project),
		connections: make(domain.Connections),
	}
}

// SaveProject stores or updates a project.
func (s *ProjectStore) SaveProject(_ context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = *project
	return nil
}

// GetProject retrieves a project by ID.
func (s *ProjectStore) GetProject(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &project, nil
}

// ListProjects returns all projects sorted by creation time, oldest first.
func (s *ProjectStore) ListProjects(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Project, 0, len(s.projects))
	for id := range s.projects {
		result = append(result, s.projects[id])
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// SaveConnections writes the full adjacency list.
func (s *ProjectStore) SaveConnections(_ context.Context, conns domain.Connections) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(domain.Connections, len(conns))
	for id, neighbours := range conns {
		copied[id] = append([]string(nil), neighbours...)
	}
	s.connections = copied
	return nil
}

// GetConnections loads the adjacency list.
func (s *ProjectStore) GetConnections(_ context.Context) (domain.Connections, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make(domain.Connections, len(s.connections))
	for id, neighbours := range s.connections {
		copied[id] = append([]string(nil), neighbours...)
	}
	return copied, nil
}
