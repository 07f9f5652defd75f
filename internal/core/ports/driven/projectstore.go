package driven

import (
	"context"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

// ProjectStore persists research projects and their connection adjacency
// list. Projects live in one JSON document, connections in another.
type ProjectStore interface {
	// SaveProject stores or updates a project.
	SaveProject(ctx context.Context, project *domain.Project) error

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id string) (*domain.Project, error)

	// ListProjects returns all projects.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// SaveConnections writes the full adjacency list.
	SaveConnections(ctx context.Context, conns domain.Connections) error

	// GetConnections loads the adjacency list. Returns an empty (non-nil)
	// map when nothing has been saved yet.
	GetConnections(ctx context.Context) (domain.Connections, error)
}
