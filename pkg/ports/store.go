package ports

import (
	"context"

	"github.com/openbadge-labs/sprout/pkg/domain"
)

// SessionStore persists onboarding session snapshots. Implementations must
// isolate stored state from caller mutation (copy on save and load).
type SessionStore interface {
	// Save persists the session under its ID.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves a session.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}
