package domain

import "time"

// Turn is one question/answer exchange within a session.
type Turn struct {
	// Question is the user input.
	Question string `json:"question"`

	// Answer is the assistant response.
	Answer string `json:"answer"`

	// Summary marks synthesized summary turns that replace pruned history.
	Summary bool `json:"summary,omitempty"`

	// At is when the turn was recorded.
	At time.Time `json:"at"`
}

// Finding is a timestamped research finding or insight.
type Finding struct {
	// Text is the finding itself.
	Text string `json:"text"`

	// Source names where the finding came from (a document, a session).
	Source string `json:"source,omitempty"`

	// At is when the finding was recorded.
	At time.Time `json:"at"`
}

// Question is a timestamped research question.
type Question struct {
	// Text is the question.
	Text string `json:"text"`

	// At is when the question was recorded.
	At time.Time `json:"at"`
}

// ResearchContext is the derived state of a session. It is updated
// incrementally as a side effect of turns and survives turn pruning:
// summarization never discards a finding recorded here.
type ResearchContext struct {
	// Topics is the set of active research topics (no duplicates).
	Topics []string `json:"topics,omitempty"`

	// Documents is the set of document IDs referenced so far (no duplicates).
	Documents []string `json:"documents,omitempty"`

	// Questions are the research questions raised, in order.
	Questions []Question `json:"questions,omitempty"`

	// Findings are the findings collected, in order.
	Findings []Finding `json:"findings,omitempty"`

	// Insights are the insights generated, in order.
	Insights []Finding `json:"insights,omitempty"`
}

// ContextDelta is the incremental update a turn contributes to the
// research context. Topics and Documents merge with set-union semantics;
// the rest append with timestamps.
type ContextDelta struct {
	Topics    []string `json:"topics,omitempty"`
	Documents []string `json:"documents,omitempty"`
	Questions []string `json:"questions,omitempty"`
	Findings  []string `json:"findings,omitempty"`
	Insights  []string `json:"insights,omitempty"`

	// Source attributes appended findings/insights.
	Source string `json:"source,omitempty"`
}

// Session is one conversation: an append-only sequence of turns plus the
// derived research context. Cleared only by an explicit reset.
type Session struct {
	// ID identifies the session.
	ID string `json:"id"`

	// Turns is the retained dialogue window. Older turns may have been
	// replaced by a single synthesized summary turn.
	Turns []Turn `json:"turns"`

	// Context is the derived research context.
	Context ResearchContext `json:"context"`

	// Interactions counts every turn ever added, including pruned ones.
	Interactions int `json:"interactions"`

	// CreatedAt is when the session started.
	CreatedAt time.Time `json:"created_at"`

	// LastAccessed is bumped on every interaction.
	LastAccessed time.Time `json:"last_accessed"`
}

// MemoryHitKind types a memory search result.
type MemoryHitKind string

// Memory search result kinds.
const (
	HitFinding  MemoryHitKind = "finding"
	HitInsight  MemoryHitKind = "insight"
	HitQuestion MemoryHitKind = "question"
)

// SearchKind selects what a memory search scans.
type SearchKind string

// Memory search scopes.
const (
	SearchAll       SearchKind = "all"
	SearchFindings  SearchKind = "findings"
	SearchInsights  SearchKind = "insights"
	SearchQuestions SearchKind = "questions"
)

// MemoryHit is a typed match from a memory search.
type MemoryHit struct {
	// Kind says which part of the context matched.
	Kind MemoryHitKind

	// Content is the matched text.
	Content string

	// Source is the attribution, when recorded.
	Source string

	// At is the original timestamp.
	At time.Time
}
