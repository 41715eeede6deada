package sessions

import (
	"context"
	"time"
)

// Repo defines the interface for session storage operations.
// Sessions are short lived and should be cleaned up regularly.
type Repo interface {
	// Upsert creates or updates a session
	Upsert(ctx context.Context, session *Session) error

	// Get retrieves a session by ID, ErrNotAuthenticated when missing
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete removes a session by ID. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired removes sessions that expired at or before now
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
