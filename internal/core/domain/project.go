package domain

import (
	"strings"
	"time"
	"unicode"
)

// ProjectStatus is the lifecycle state of a research project.
type ProjectStatus string

// Project lifecycle states.
const (
	StatusActive    ProjectStatus = "active"
	StatusPaused    ProjectStatus = "paused"
	StatusCompleted ProjectStatus = "completed"
	StatusArchived  ProjectStatus = "archived"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Resource is a reference from a project to a document or note.
type Resource struct {
	// ID identifies the resource.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Type is the resource kind: "pdf", "note", "link", "data".
	Type string `json:"type"`

	// DocumentID references an ingested document, when applicable.
	DocumentID string `json:"document_id,omitempty"`

	// AddedAt is when the resource was attached.
	AddedAt time.Time `json:"added_at"`
}

// Project is a named, user-created container of resources and findings.
// Projects are created explicitly and never auto-deleted.
type Project struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	// Name is the project name.
	Name string `json:"name"`

	// Description is the free-text description.
	Description string `json:"description"`

	// Status is the lifecycle state.
	Status ProjectStatus `json:"status"`

	// Tags are free-form labels.
	Tags []string `json:"tags,omitempty"`

	// Resources are the attached document/note references.
	Resources []Resource `json:"resources,omitempty"`

	// Findings are the key findings, in order of recording.
	Findings []Finding `json:"findings,omitempty"`

	// Questions are the research questions, in order of recording.
	Questions []Question `json:"questions,omitempty"`

	// CreatedAt is when the project was created.
	CreatedAt time.Time `json:"created_at"`

	// LastUpdated is bumped on every mutation.
	LastUpdated time.Time `json:"last_updated"`
}

// CorpusText concatenates the project's findings and questions.
// This is the text connection detection compares against.
func (p *Project) CorpusText() string {
	var b strings.Builder
	for _, f := range p.Findings {
		b.WriteString(f.Text)
		b.WriteByte(' ')
	}
	for _, q := range p.Questions {
		b.WriteString(q.Text)
		b.WriteByte(' ')
	}
	return b.String()
}

// TokenSet lowercases text and splits it into a set of word tokens.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		set[tok] = struct{}{}
	}
	return set
}

// Jaccard computes token-set Jaccard similarity between two texts.
// Returns 0 for two empty texts.
func Jaccard(a, b string) float64 {
	setA, setB := TokenSet(a), TokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Connections is the symmetric project adjacency list, keyed by project ID.
// Edges are only ever added, never removed by similarity passes.
type Connections map[string][]string

// Add records a bidirectional edge between two projects. Idempotent.
func (c Connections) Add(a, b string) {
	c.addOne(a, b)
	c.addOne(b, a)
}

func (c Connections) addOne(from, to string) {
	for _, existing := range c[from] {
		if existing == to {
			return
		}
	}
	c[from] = append(c[from], to)
}

// Of returns the neighbours of a project. Absent entries yield nil.
func (c Connections) Of(projectID string) []string {
	return c[projectID]
}

// ProjectStats summarizes one project's recorded activity.
type ProjectStats struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	Findings    int           `json:"findings"`
	Questions   int           `json:"questions"`
	Resources   int           `json:"resources"`
	Connections int           `json:"connections"`
}

// AnalyticsSummary aggregates activity across the project registry.
// TotalConnections counts distinct project pairs, not directed edges.
type AnalyticsSummary struct {
	TotalProjects    int                   `json:"total_projects"`
	ByStatus         map[ProjectStatus]int `json:"by_status"`
	TotalFindings    int                   `json:"total_findings"`
	TotalQuestions   int                   `json:"total_questions"`
	TotalConnections int                   `json:"total_connections"`
	Projects         []ProjectStats        `json:"projects"`
}

// ProjectExport is a portable snapshot of a project and the projects it
// is connected to.
type ProjectExport struct {
	Project     Project   `json:"project"`
	Connections []Project `json:"connections,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}
