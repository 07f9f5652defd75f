package driving

import (
	"context"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

// MemoryService manages per-session conversational memory.
type MemoryService interface {
	// AddInteraction appends a turn and merges the context delta into
	// the session's research context.
	AddInteraction(ctx context.Context, sessionID, question, answer string, delta *domain.ContextDelta) error

	// Recent returns the last k retained turns, oldest first.
	Recent(ctx context.Context, sessionID string, k int) ([]domain.Turn, error)

	// Search scans the research context for substring matches.
	Search(ctx context.Context, sessionID, query string, kind domain.SearchKind) ([]domain.MemoryHit, error)

	// Context returns the session's research context.
	Context(ctx context.Context, sessionID string) (*domain.ResearchContext, error)

	// PromptContext renders the context block added to grounded prompts.
	PromptContext(ctx context.Context, sessionID string) (string, error)

	// Reset clears a session: turns, context and counters.
	Reset(ctx context.Context, sessionID string) error
}
