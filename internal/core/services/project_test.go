package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagemem "github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/storage/memory"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

func TestProjectService_CreateProject(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	id, err := service.CreateProject(ctx, "Bias Study", "bias in vision models", []string{"bias", "vision"})

	require.NoError(t, err)
	require.NotEmpty(t, id)

	project, err := service.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bias Study", project.Name)
	assert.Equal(t, domain.StatusActive, project.Status)
	assert.Equal(t, []string{"bias", "vision"}, project.Tags)
	assert.False(t, project.CreatedAt.IsZero())
}

func TestProjectService_CreateProject_EmptyName(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)

	_, err := service.CreateProject(context.Background(), "   ", "", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProjectService_GetProject_NotFound(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)

	_, err := service.GetProject(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_AddResource(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	id, err := service.CreateProject(ctx, "Study", "", nil)
	require.NoError(t, err)

	err = service.AddResource(ctx, id, domain.Resource{Name: "survey.pdf", Type: "pdf", DocumentID: "survey"})
	require.NoError(t, err)

	project, err := service.GetProject(ctx, id)
	require.NoError(t, err)
	require.Len(t, project.Resources, 1)
	assert.NotEmpty(t, project.Resources[0].ID)
	assert.False(t, project.Resources[0].AddedAt.IsZero())
}

func TestProjectService_AddFinding_EmptyText(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)

	err := service.AddFinding(context.Background(), "any", "  ", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProjectService_ConnectionDetection(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	p1, err := service.CreateProject(ctx, "Facial Recognition", "", nil)
	require.NoError(t, err)
	p2, err := service.CreateProject(ctx, "Training Methods", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.AddFinding(ctx, p1, "deep learning bias in facial recognition", "(Kaya, 2020)"))
	require.NoError(t, service.AddFinding(ctx, p2, "bias mitigation in neural network training", ""))

	// High word overlap links the projects both ways.
	connected, err := service.Connected(ctx, p1)
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, p2, connected[0].ID)

	connected, err = service.Connected(ctx, p2)
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, p1, connected[0].ID)
}

func TestProjectService_ConnectionDetection_DisjointVocabulary(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	p1, err := service.CreateProject(ctx, "Astronomy", "", nil)
	require.NoError(t, err)
	p2, err := service.CreateProject(ctx, "Linguistics", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.AddFinding(ctx, p1, "stellar spectra reveal elemental composition", ""))
	require.NoError(t, service.AddFinding(ctx, p2, "morphological typology groups languages", ""))

	connected, err := service.Connected(ctx, p1)
	require.NoError(t, err)
	assert.Empty(t, connected)
}

func TestProjectService_ConnectionsSurviveDivergence(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	p1, err := service.CreateProject(ctx, "One", "", nil)
	require.NoError(t, err)
	p2, err := service.CreateProject(ctx, "Two", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.AddFinding(ctx, p1, "shared vocabulary about transformer attention", ""))
	require.NoError(t, service.AddFinding(ctx, p2, "shared vocabulary about transformer attention", ""))

	connected, err := service.Connected(ctx, p1)
	require.NoError(t, err)
	require.Len(t, connected, 1)

	// Later divergence dilutes the similarity, but the edge stays.
	for i := 0; i < 5; i++ {
		require.NoError(t, service.AddFinding(ctx, p1, "unrelated astronomy observation of distant quasars", ""))
	}

	connected, err = service.Connected(ctx, p1)
	require.NoError(t, err)
	assert.Len(t, connected, 1)
}

func TestProjectService_AddQuestion_ContributesToCorpus(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	p1, err := service.CreateProject(ctx, "One", "", nil)
	require.NoError(t, err)
	p2, err := service.CreateProject(ctx, "Two", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.AddFinding(ctx, p1, "embedding models encode semantic similarity", ""))
	require.NoError(t, service.AddQuestion(ctx, p2, "how do embedding models encode semantic similarity"))

	connected, err := service.Connected(ctx, p2)
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, p1, connected[0].ID)
}

func TestProjectService_SetStatus(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	id, err := service.CreateProject(ctx, "Study", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.SetStatus(ctx, id, domain.StatusCompleted))

	project, err := service.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, project.Status)
}

func TestProjectService_SetStatus_Invalid(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)

	err := service.SetStatus(context.Background(), "any", domain.ProjectStatus("vanished"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProjectService_SearchProjects(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	active, err := service.CreateProject(ctx, "Bias in Vision", "fairness of classifiers", []string{"bias", "vision"})
	require.NoError(t, err)
	paused, err := service.CreateProject(ctx, "Speech Models", "acoustic modelling", []string{"speech"})
	require.NoError(t, err)
	require.NoError(t, service.SetStatus(ctx, paused, domain.StatusPaused))

	// Free text over name and description.
	matched, err := service.SearchProjects(ctx, "fairness", nil, "")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, active, matched[0].ID)

	// Tag filter is case insensitive.
	matched, err = service.SearchProjects(ctx, "", []string{"BIAS"}, "")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, active, matched[0].ID)

	// Status filter.
	matched, err = service.SearchProjects(ctx, "", nil, domain.StatusPaused)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, paused, matched[0].ID)

	// Empty criteria match everything.
	matched, err = service.SearchProjects(ctx, "", nil, "")
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestProjectService_Connected_UnknownProject(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)

	connected, err := service.Connected(context.Background(), "missing")

	require.NoError(t, err)
	assert.Empty(t, connected)
}

func TestProjectService_Analytics(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	p1, err := service.CreateProject(ctx, "Facial Recognition", "", nil)
	require.NoError(t, err)
	p2, err := service.CreateProject(ctx, "Training Methods", "", nil)
	require.NoError(t, err)
	require.NoError(t, service.SetStatus(ctx, p2, domain.StatusPaused))

	// Overlapping findings connect the two projects.
	require.NoError(t, service.AddFinding(ctx, p1, "deep learning bias in facial recognition", ""))
	require.NoError(t, service.AddFinding(ctx, p2, "bias mitigation in neural network training", ""))
	require.NoError(t, service.AddQuestion(ctx, p1, "how does dataset composition affect bias"))

	summary, err := service.Analytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalProjects)
	assert.Equal(t, 1, summary.ByStatus[domain.StatusActive])
	assert.Equal(t, 1, summary.ByStatus[domain.StatusPaused])
	assert.Equal(t, 2, summary.TotalFindings)
	assert.Equal(t, 1, summary.TotalQuestions)
	assert.Equal(t, 1, summary.TotalConnections)

	require.Len(t, summary.Projects, 2)
	byID := make(map[string]domain.ProjectStats, 2)
	for _, stats := range summary.Projects {
		byID[stats.ID] = stats
	}
	assert.Equal(t, 1, byID[p1].Findings)
	assert.Equal(t, 1, byID[p1].Questions)
	assert.Equal(t, 1, byID[p1].Connections)
	assert.Equal(t, 1, byID[p2].Connections)
}

func TestProjectService_Analytics_EmptyRegistry(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)

	summary, err := service.Analytics(context.Background())

	require.NoError(t, err)
	assert.Zero(t, summary.TotalProjects)
	assert.Zero(t, summary.TotalConnections)
	assert.Empty(t, summary.Projects)
}

func TestProjectService_Export(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	p1, err := service.CreateProject(ctx, "Facial Recognition", "", nil)
	require.NoError(t, err)
	p2, err := service.CreateProject(ctx, "Training Methods", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.AddFinding(ctx, p1, "deep learning bias in facial recognition", "(Kaya, 2020)"))
	require.NoError(t, service.AddFinding(ctx, p2, "bias mitigation in neural network training", ""))

	export, err := service.Export(ctx, p1)
	require.NoError(t, err)

	assert.Equal(t, p1, export.Project.ID)
	assert.Len(t, export.Project.Findings, 1)
	require.Len(t, export.Connections, 1)
	assert.Equal(t, p2, export.Connections[0].ID)
	assert.False(t, export.ExportedAt.IsZero())
}

func TestProjectService_Export_UnknownProject(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)

	_, err := service.Export(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_ConnectionDetection_OldFindingsDoNotDilute(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0)
	ctx := context.Background()

	p1, err := service.CreateProject(ctx, "Broad Survey", "", nil)
	require.NoError(t, err)
	p2, err := service.CreateProject(ctx, "Scaling Laws", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.AddFinding(ctx, p2, "transformer attention scaling laws emerge", ""))

	// A large unrelated corpus recorded before the overlapping finding.
	filler := make([]string, 50)
	for i := range filler {
		filler[i] = fmt.Sprintf("filler%02d", i)
	}
	require.NoError(t, service.AddFinding(ctx, p1, strings.Join(filler, " "), ""))

	// Only the new finding's text is compared, so a token-identical
	// finding connects regardless of what came before it.
	require.NoError(t, service.AddFinding(ctx, p1, "transformer attention scaling laws emerge", ""))

	connected, err := service.Connected(ctx, p1)
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, p2, connected[0].ID)
}

func TestProjectService_ConnectionDetection_ThresholdIsExclusive(t *testing.T) {
	service := NewProjectService(storagemem.NewProjectStore(), 0.5)
	ctx := context.Background()

	p1, err := service.CreateProject(ctx, "One", "", nil)
	require.NoError(t, err)
	p2, err := service.CreateProject(ctx, "Two", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.AddFinding(ctx, p2, "alpha beta gamma delta", ""))

	// Similarity 2/4 lands exactly on the threshold and does not connect.
	require.NoError(t, service.AddFinding(ctx, p1, "alpha beta", ""))
	connected, err := service.Connected(ctx, p1)
	require.NoError(t, err)
	assert.Empty(t, connected)

	// Similarity 3/4 exceeds it.
	require.NoError(t, service.AddFinding(ctx, p1, "alpha beta gamma", ""))
	connected, err = service.Connected(ctx, p1)
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, p2, connected[0].ID)
}
