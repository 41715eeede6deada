package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyEmail stores the email of the authenticated session
	ContextKeyEmail ContextKey = "email"
	// ContextKeyToken stores the raw session token
	ContextKeyToken ContextKey = "session_token"
)

// RequireSession resolves the caller's session token and injects the owner's
// email into the request context. Requests without a live session get 401.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)

			email, err := s.auth.Authenticate(r.Context(), token)
			if err != nil {
				s.writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyEmail, email)
			ctx = context.WithValue(ctx, ContextKeyToken, token)
			next(w, r.WithContext(ctx))
		}
	}
}

// sessionToken reads a Bearer token, falling back on the session cookie
func sessionToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// sessionEmail returns the email injected by RequireSession
func sessionEmail(ctx context.Context) (string, error) {
	email, ok := ctx.Value(ContextKeyEmail).(string)
	if !ok || email == "" {
		return "", apperrors.ErrNotAuthenticated
	}
	return email, nil
}

func contextToken(ctx context.Context) string {
	token, _ := ctx.Value(ContextKeyToken).(string)
	return token
}
