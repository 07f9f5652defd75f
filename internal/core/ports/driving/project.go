package driving

import (
	"context"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

// ProjectService manages research projects and their cross-project
// connections.
type ProjectService interface {
	// CreateProject creates a project and returns its ID.
	CreateProject(ctx context.Context, name, description string, tags []string) (string, error)

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id string) (*domain.Project, error)

	// AddResource attaches a resource to a project.
	AddResource(ctx context.Context, projectID string, res domain.Resource) error

	// AddFinding records a finding and runs incremental connection
	// detection against all other projects.
	AddFinding(ctx context.Context, projectID, finding, source string) error

	// AddQuestion records a research question.
	AddQuestion(ctx context.Context, projectID, question string) error

	// SetStatus updates the project lifecycle state.
	SetStatus(ctx context.Context, projectID string, status domain.ProjectStatus) error

	// Connected resolves the project's connections to Project values.
	// Unknown projects yield an empty list, not an error.
	Connected(ctx context.Context, projectID string) ([]domain.Project, error)

	// SearchProjects filters projects by free text, tags and status.
	SearchProjects(ctx context.Context, query string, tags []string, status domain.ProjectStatus) ([]domain.Project, error)

	// Analytics aggregates activity counts across the whole registry.
	Analytics(ctx context.Context) (*domain.AnalyticsSummary, error)

	// Export builds a portable snapshot of a project and its
	// connections, suitable for serialization.
	Export(ctx context.Context, projectID string) (*domain.ProjectExport, error)
}
