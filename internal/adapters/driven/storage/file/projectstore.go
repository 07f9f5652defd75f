package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// Ensure ProjectStore implements the interface.
var _ driven.ProjectStore = (*ProjectStore)(nil)

const (
	projectsFile    = "projects.json"
	connectionsFile = "connections.json"
)

// ProjectStore keeps all projects in projects.json and the connection
// adjacency list in connections.json.
type ProjectStore struct {
	mu  sync.RWMutex
	dir string
}

// NewProjectStore creates a project store rooted at dir.
func NewProjectStore(dir string) (*ProjectStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &ProjectStore{dir: dir}, nil
}

func (s *ProjectStore) loadProjects() (map[string]domain.Project, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, projectsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]domain.Project), nil
		}
		return nil, fmt.Errorf("read projects: %w", err)
	}
	var projects map[string]domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	if projects == nil {
		projects = make(map[string]domain.Project)
	}
	return projects, nil
}

func (s *ProjectStore) saveProjects(projects map[string]domain.Project) error {
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, projectsFile), data); err != nil {
		return fmt.Errorf("write projects: %w", err)
	}
	return nil
}

// SaveProject stores or updates a project.
func (s *ProjectStore) SaveProject(_ context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects()
	if err != nil {
		return err
	}
	projects[project.ID] = *project
	return s.saveProjects(projects)
}

// GetProject retrieves a project by ID.
func (s *ProjectStore) GetProject(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects, err := s.loadProjects()
	if err != nil {
		return nil, err
	}
	project, ok := projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &project, nil
}

// ListProjects returns all projects sorted by creation time, oldest first.
func (s *ProjectStore) ListProjects(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects, err := s.loadProjects()
	if err != nil {
		return nil, err
	}
	result := make([]domain.Project, 0, len(projects))
	for id := range projects {
		result = append(result, projects[id])
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

	data, err := json.MarshalIndent(conns, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal connections: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, connectionsFile), data); err != nil {
		return fmt.Errorf("write connections: %w", err)
	}
	return nil
}

// GetConnections loads the adjacency list.
func (s *ProjectStore) GetConnections(_ context.Context) (domain.Connections, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.dir, connectionsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return make(domain.Connections), nil
		}
		return nil, fmt.Errorf("read connections: %w", err)
	}
	var conns domain.Connections
	if err := json.Unmarshal(data, &conns); err != nil {
		return nil, fmt.Errorf("decode connections: %w", err)
	}
	if conns == nil {
		conns = make(domain.Connections)
	}
	return conns, nil
}
