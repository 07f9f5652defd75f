package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driving"
	"github.com/scholarsphere-labs/scholar-cli/internal/logger"
)

// Ensure MemoryService implements the interface.
var _ driving.MemoryService = (*MemoryService)(nil)

// summaryMaxLen caps the synthesized summary turn.
const summaryMaxLen = 1000

// MemoryService manages per-session conversational memory: an append-only
// turn log with a derived research context, summarized under size pressure.
//
// The research context persists independently of turn pruning: a finding
// recorded there is never lost to summarization.
type MemoryService struct {
	store driven.SessionStore

	// completion is optional; without it sessions fall back to windowed
	// recall instead of summarized recall.
	completion driven.CompletionService

	// budget is the retained turn size in characters before older turns
	// are collapsed.
	budget int

	// window is how many recent raw turns survive a summarization pass.
	window int
}

// NewMemoryService creates a new memory service.
// The completion parameter is optional (can be nil).
func NewMemoryService(store driven.SessionStore, completion driven.CompletionService, budget, window int) *MemoryService {
	if budget <= 0 {
		budget = 8000
	}
	if window <= 0 {
		window = 5
	}
	return &MemoryService{
		store:      store,
		completion: completion,
		budget:     budget,
		window:     window,
	}
}

// AddInteraction appends a turn, merges the context delta, and collapses
// older turns into a summary when the session outgrows its budget.
func (s *MemoryService) AddInteraction(ctx context.Context, sessionID, question, answer string, delta *domain.ContextDelta) error {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	now := time.Now()
	session.Turns = append(session.Turns, domain.Turn{
		Question: question,
		Answer:   answer,
		At:       now,
	})
	session.Interactions++
	session.LastAccessed = now

	if delta != nil {
		mergeDelta(&session.Context, delta, now)
	}

	s.maybeSummarize(ctx, session)

	if err := s.store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	logger.Debug("Session %s: %d turns retained, %d interactions total",
		sessionID, len(session.Turns), session.Interactions)
	return nil
}

// mergeDelta folds a context delta into the research context.
// Topics and documents merge with set-union semantics; findings, insights
// and questions append with timestamps.
func mergeDelta(rc *domain.ResearchContext, delta *domain.ContextDelta, now time.Time) {
	rc.Topics = unionAppend(rc.Topics, delta.Topics)
	rc.Documents = unionAppend(rc.Documents, delta.Documents)
	for _, q := range delta.Questions {
		rc.Questions = append(rc.Questions, domain.Question{Text: q, At: now})
	}
	for _, f := range delta.Findings {
		rc.Findings = append(rc.Findings, domain.Finding{Text: f, Source: delta.Source, At: now})
	}
	for _, in := range delta.Insights {
		rc.Insights = append(rc.Insights, domain.Finding{Text: in, Source: delta.Source, At: now})
	}
}

func unionAppend(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range incoming {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		existing = append(existing, v)
	}
	return existing
}

// maybeSummarize collapses older turns into one synthesized summary turn
// when the retained turns exceed the budget. A summarization failure keeps
// the raw turns: windowed recall is the fallback, never data loss.
func (s *MemoryService) maybeSummarize(ctx context.Context, session *domain.Session) {
	if turnsSize(session.Turns) <= s.budget || len(session.Turns) <= s.window {
		return
	}
	if s.completion == nil {
		logger.Debug("Session %s over budget but no summarizer configured", session.ID)
		return
	}

	cut := len(session.Turns) - s.window
	older := session.Turns[:cut]
	recent := session.Turns[cut:]

	var b strings.Builder
	for _, turn := range older {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", turn.Question, turn.Answer)
	}

	summary, err := s.completion.Summarise(ctx, b.String(), summaryMaxLen)
	if err != nil {
		logger.Warn("Summarization failed, keeping raw turns: %v", err)
		return
	}

	collapsed := make([]domain.Turn, 0, s.window+1)
	collapsed = append(collapsed, domain.Turn{
		Question: "(conversation so far)",
		Answer:   summary,
		Summary:  true,
		At:       older[len(older)-1].At,
	})
	collapsed = append(collapsed, recent...)
	session.Turns = collapsed

	logger.Info("Session %s: collapsed %d turns into a summary", session.ID, cut)
}

func turnsSize(turns []domain.Turn) int {
	size := 0
	for _, turn := range turns {
		size += len(turn.Question) + len(turn.Answer)
	}
	return size
}

// Recent returns the last k retained turns, oldest first.
func (s *MemoryService) Recent(ctx context.Context, sessionID string, k int) ([]domain.Turn, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if k <= 0 || k > len(session.Turns) {
		k = len(session.Turns)
	}
	return session.Turns[len(session.Turns)-k:], nil
}

// Search scans the research context for substring matches.
func (s *MemoryService) Search(ctx context.Context, sessionID, query string, kind domain.SearchKind) ([]domain.MemoryHit, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var hits []domain.MemoryHit

	if kind == domain.SearchAll || kind == domain.SearchFindings {
		for _, f := range session.Context.Findings {
			if strings.Contains(strings.ToLower(f.Text), needle) {
				hits = append(hits, domain.MemoryHit{Kind: domain.HitFinding, Content: f.Text, Source: f.Source, At: f.At})
			}
		}
	}
	if kind == domain.SearchAll || kind == domain.SearchInsights {
		for _, in := range session.Context.Insights {
			if strings.Contains(strings.ToLower(in.Text), needle) {
				hits = append(hits, domain.MemoryHit{Kind: domain.HitInsight, Content: in.Text, Source: in.Source, At: in.At})
			}
		}
	}
	if kind == domain.SearchAll || kind == domain.SearchQuestions {
		for _, q := range session.Context.Questions {
			if strings.Contains(strings.ToLower(q.Text), needle) {
				hits = append(hits, domain.MemoryHit{Kind: domain.HitQuestion, Content: q.Text, At: q.At})
			}
		}
	}

	return hits, nil
}

// Context returns the session's research context.
func (s *MemoryService) Context(ctx context.Context, sessionID string) (*domain.ResearchContext, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rc := session.Context
	return &rc, nil
}

// PromptContext renders the block of recent topics and findings that the
// orchestrator appends to grounded prompts.
func (s *MemoryService) PromptContext(ctx context.Context, sessionID string) (string, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if topics := lastN(session.Context.Topics, 3); len(topics) > 0 {
		fmt.Fprintf(&b, "Active research topics: %s\n", strings.Join(topics, ", "))
	}
	findings := session.Context.Findings
	if len(findings) > 0 {
		start := len(findings) - 2
		if start < 0 {
			start = 0
		}
		texts := make([]string, 0, 2)
		for _, f := range findings[start:] {
			texts = append(texts, f.Text)
		}
		fmt.Fprintf(&b, "Earlier findings: %s\n", strings.Join(texts, " | "))
	}
	return b.String(), nil
}

func lastN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// Reset clears a session: turns, context and counters.
func (s *MemoryService) Reset(ctx context.Context, sessionID string) error {
	now := time.Now()
	session := &domain.Session{
		ID:           sessionID,
		CreatedAt:    now,
		LastAccessed: now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	logger.Info("Cleared session %s", sessionID)
	return nil
}

// load fetches a session, creating a fresh one for unseen IDs.
func (s *MemoryService) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required: %w", domain.ErrInvalidInput)
	}
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			now := time.Now()
			return &domain.Session{ID: sessionID, CreatedAt: now, LastAccessed: now}, nil
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return session, nil
}

// ParseContextDelta decodes model-produced JSON into a context delta with
// strict schema validation. Unknown fields or malformed JSON fail closed
// with a *domain.ParseError; raw text is never passed through as if it
// had been parsed.
func ParseContextDelta(raw string) (*domain.ContextDelta, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var delta domain.ContextDelta
	if err := dec.Decode(&delta); err != nil {
		return nil, &domain.ParseError{Raw: raw, Err: err}
	}
	// Trailing content after the JSON document is also a malformed reply.
	if dec.More() {
		return nil, &domain.ParseError{Raw: raw, Err: errors.New("trailing content after JSON document")}
	}
	return &delta, nil
}
