package driving

import (
	"context"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

// AssistantService answers grounded questions over the document library.
type AssistantService interface {
	// Ask retrieves passages for the question restricted to scope,
	// generates a cited answer, and records the exchange into
	// conversational memory when useMemory is set.
	//
	// Zero retrieval hits is a valid terminal state: the returned Answer
	// carries the canned not-found text and no completion call is made.
	// A completion failure surfaces as *domain.GenerationError with the
	// retrieved passages attached.
	Ask(ctx context.Context, question string, scope []string, useMemory bool) (*domain.Answer, error)

	// Tools exposes the assistant's capabilities as a composable toolset.
	Tools() domain.Toolset
}
