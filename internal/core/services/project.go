package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driving"
	"github.com/scholarsphere-labs/scholar-cli/internal/logger"
)

// Ensure ProjectService implements the interface.
var _ driving.ProjectService = (*ProjectService)(nil)

// DefaultConnectionThreshold is the Jaccard similarity above which two
// projects are considered connected.
const DefaultConnectionThreshold = 0.10

// ProjectService manages research projects and detects thematic
// connections between them. Detection runs incrementally: each new
// finding or question compares only its own text against the other
// projects' corpora, and established connections survive later
// divergence.
type ProjectService struct {
	store     driven.ProjectStore
	threshold float64

	// mu serializes mutations and the similarity pass that follows them.
	mu sync.Mutex
}

// NewProjectService creates a new project service. A non-positive
// threshold falls back to the default.
func NewProjectService(store driven.ProjectStore, threshold float64) *ProjectService {
	if threshold <= 0 {
		threshold = DefaultConnectionThreshold
	}
	return &ProjectService{store: store, threshold: threshold}
}

// CreateProject creates an active project and returns its ID.
func (s *ProjectService) CreateProject(ctx context.Context, name, description string, tags []string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("project name required: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	project := &domain.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Status:      domain.StatusActive,
		Tags:        tags,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := s.store.SaveProject(ctx, project); err != nil {
		return "", fmt.Errorf("save project: %w", err)
	}
	logger.Info("Created project %q (%s)", name, project.ID)
	return project.ID, nil
}

// GetProject retrieves a project by ID.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.GetProject(ctx, id)
}

// AddResource attaches a resource to a project.
func (s *ProjectService) AddResource(ctx context.Context, projectID string, res domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.AddedAt.IsZero() {
		res.AddedAt = time.Now()
	}
	project.Resources = append(project.Resources, res)
	project.LastUpdated = time.Now()
	return s.store.SaveProject(ctx, project)
}

// AddFinding records a finding and runs connection detection for the
// updated project against every other project.
func (s *ProjectService) AddFinding(ctx context.Context, projectID, finding, source string) error {
	if strings.TrimSpace(finding) == "" {
		return fmt.Errorf("finding text required: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	now := time.Now()
	project.Findings = append(project.Findings, domain.Finding{Text: finding, Source: source, At: now})
	project.LastUpdated = now
	if err := s.store.SaveProject(ctx, project); err != nil {
		return fmt.Errorf("save project %s: %w", projectID, err)
	}

	if err := s.detectConnections(ctx, project, finding); err != nil {
		// Detection is advisory; the finding itself is already saved.
		logger.Warn("Connection detection failed for %s: %v", projectID, err)
	}
	return nil
}

// AddQuestion records a research question and runs connection detection,
// since questions contribute to the comparison corpus.
func (s *ProjectService) AddQuestion(ctx context.Context, projectID, question string) error {
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question text required: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	now := time.Now()
	project.Questions = append(project.Questions, domain.Question{Text: question, At: now})
	project.LastUpdated = now
	if err := s.store.SaveProject(ctx, project); err != nil {
		return fmt.Errorf("save project %s: %w", projectID, err)
	}

	if err := s.detectConnections(ctx, project, question); err != nil {
		logger.Warn("Connection detection failed for %s: %v", projectID, err)
	}
	return nil
}

// SetStatus updates the project lifecycle state.
func (s *ProjectService) SetStatus(ctx context.Context, projectID string, status domain.ProjectStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q: %w", status, domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	project.Status = status
	project.LastUpdated = time.Now()
	return s.store.SaveProject(ctx, project)
}

// Connected resolves the project's connections to full Project values.
// A project with no recorded connections yields an empty list.
func (s *ProjectService) Connected(ctx context.Context, projectID string) ([]domain.Project, error) {
	conns, err := s.store.GetConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}

	var connected []domain.Project
	for _, id := range conns.Of(projectID) {
		project, err := s.store.GetProject(ctx, id)
		if err != nil {
			logger.Warn("Connected project %s not loadable: %v", id, err)
			continue
		}
		connected = append(connected, *project)
	}
	return connected, nil
}

// SearchProjects filters projects by free text over name, description and
// tags, by required tags, and by status. Empty criteria match everything.
func (s *ProjectService) SearchProjects(ctx context.Context, query string, tags []string, status domain.ProjectStatus) ([]domain.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	needle := strings.ToLower(query)
	var matched []domain.Project
	for _, p := range projects {
		if status != "" && p.Status != status {
			continue
		}
		if !hasAllTags(p.Tags, tags) {
			continue
		}
		if needle != "" && !projectMatches(&p, needle) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

// Analytics aggregates per-project and registry-wide activity counts.
func (s *ProjectService) Analytics(ctx context.Context) (*domain.AnalyticsSummary, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	conns, err := s.store.GetConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}

	summary := &domain.AnalyticsSummary{
		TotalProjects: len(projects),
		ByStatus:      make(map[domain.ProjectStatus]int),
	}
	for _, p := range projects {
		summary.ByStatus[p.Status]++
		summary.TotalFindings += len(p.Findings)
		summary.TotalQuestions += len(p.Questions)
		summary.Projects = append(summary.Projects, domain.ProjectStats{
			ID:          p.ID,
			Name:        p.Name,
			Status:      p.Status,
			Findings:    len(p.Findings),
			Questions:   len(p.Questions),
			Resources:   len(p.Resources),
			Connections: len(conns.Of(p.ID)),
		})
	}

	// Every edge appears under both endpoints.
	edges := 0
	for id := range conns {
		edges += len(conns[id])
	}
	summary.TotalConnections = edges / 2
	return summary, nil
}

// Export builds a portable snapshot of a project and its connections.
func (s *ProjectService) Export(ctx context.Context, projectID string) (*domain.ProjectExport, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	connected, err := s.Connected(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &domain.ProjectExport{
		Project:     *project,
		Connections: connected,
		ExportedAt:  time.Now(),
	}, nil
}

func projectMatches(p *domain.Project, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// detectConnections compares the newly recorded text against every other
// project's corpus and records edges where similarity exceeds the
// threshold. Edges accumulate; a pass never removes one.
func (s *ProjectService) detectConnections(ctx context.Context, updated *domain.Project, text string) error {
	others, err := s.store.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	conns, err := s.store.GetConnections(ctx)
	if err != nil {
		return fmt.Errorf("load connections: %w", err)
	}
	if conns == nil {
		conns = make(domain.Connections)
	}

	added := 0
	for i := range others {
		other := &others[i]
		if other.ID == updated.ID {
			continue
		}
		score := domain.Jaccard(text, other.CorpusText())
		if score > s.threshold {
			before := len(conns.Of(updated.ID))
			conns.Add(updated.ID, other.ID)
			if len(conns.Of(updated.ID)) > before {
				added++
				logger.Debug("Connected %q and %q (similarity %.2f)", updated.Name, other.Name, score)
			}
		}
	}
	if added == 0 {
		return nil
	}
	if err := s.store.SaveConnections(ctx, conns); err != nil {
		return fmt.Errorf("save connections: %w", err)
	}
	logger.Info("Project %q gained %d connection(s)", updated.Name, added)
	return nil
}
