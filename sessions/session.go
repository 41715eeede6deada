package sessions

import "time"

// Session is the server side record of one successful login.
// A signed token carries the ID as its jti; the token is only honoured while this record exists.
type Session struct {
	ID        string    // Unique session identifier (UUID)
	Email     string    // Owner of the session
	CreatedAt time.Time // When the login succeeded
	ExpiresAt time.Time // When the session stops being accepted
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
