package driven

import (
	"context"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

// SessionStore persists conversation sessions.
// Each session is stored as one human-readable JSON document.
type SessionStore interface {
	// Save writes the full session state.
	Save(ctx context.Context, session *domain.Session) error

	// Get loads a session by ID. Returns domain.ErrNotFound when the
	// session has never been saved.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}
