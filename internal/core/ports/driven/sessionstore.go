package driven

import (
	"context"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// SessionStore holds bounded conversation history per session.
// Implementations enforce domain.MaxSessionTurns on Append.
type SessionStore interface {
	// Get returns a copy of the session's turns, oldest first.
	// Unknown sessions yield an empty slice and no error.
	Get(ctx context.Context, sessionID string) ([]domain.Turn, error)

	// Append adds a turn, creating the session on first use.
	Append(ctx context.Context, sessionID string, turn domain.Turn) error

	// Clear drops the session. Clearing an unknown session is a no-op.
	Clear(ctx context.Context, sessionID string) error
}
