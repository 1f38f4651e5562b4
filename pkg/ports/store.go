package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
)

// SessionStore defines the interface for persisting cursor sessions.
// Only the algorithm, its input and the cursor index are stored; the trace is
// regenerated on load.
type SessionStore interface {
	// Save persists the session for a given session ID.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves the session for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
