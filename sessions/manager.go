package sessions

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/pkg/errors"
)

const defaultSessionTimeout = 30 * time.Minute

// Manager issues and validates session tokens.
// Tokens are signed JWTs whose jti points at a Session held in the Repo.
type Manager struct {
	repo    Repo
	signer  Signer
	timeout time.Duration
	issuer  string
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

func WithTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) {
		m.timeout = timeout
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func NewManager(repo Repo, signer Signer, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[sessions.NewManager] session repo is required")
	}
	if signer == nil {
		return nil, errors.New("[sessions.NewManager] signer is required")
	}

	m := &Manager{
		repo:    repo,
		signer:  signer,
		timeout: defaultSessionTimeout,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.timeout <= 0 {
		m.timeout = defaultSessionTimeout
	}
	return m, nil
}

// Create starts a session for email and returns its signed token
func (m *Manager) Create(ctx context.Context, email string) (string, *Session, error) {
	now := m.nowFunc()
	session := &Session{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.timeout),
	}

	claims := jwt.MapClaims{
		"sub": session.Email,
		"jti": session.ID,
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}
	if m.issuer != "" {
		claims["iss"] = m.issuer
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", nil, errors.Wrap(err, "[Manager.Create] failed to sign session token")
	}

	if err := m.repo.Upsert(ctx, session); err != nil {
		return "", nil, errors.Wrap(err, "[Manager.Create] failed to store session")
	}
	return signed, session, nil
}

// Validate returns the live session behind token or ErrNotAuthenticated
func (m *Manager) Validate(ctx context.Context, token string) (*Session, error) {
	sessionID, err := m.parse(token)
	if err != nil {
		return nil, err
	}

	session, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotAuthenticated) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, errors.Wrap(err, "[Manager.Validate] failed to load session")
	}

	if session.Expired(m.nowFunc()) {
		_ = m.repo.Delete(ctx, sessionID)
		return nil, apperrors.ErrNotAuthenticated
	}
	return session, nil
}

// Revoke ends the session behind token. Revoking an already ended session is a no-op.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	sessionID, err := m.parse(token)
	if err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, sessionID); err != nil {
		return errors.Wrap(err, "[Manager.Revoke] failed to delete session")
	}
	return nil
}

// Cleanup drops expired session records
func (m *Manager) Cleanup(ctx context.Context) (int, error) {
	return m.repo.DeleteExpired(ctx, m.nowFunc())
}

func (m *Manager) parse(token string) (string, error) {
	if token == "" {
		return "", apperrors.ErrNotAuthenticated
	}

	parsed, err := jwt.Parse(token, m.signer.VerificationKey,
		jwt.WithValidMethods([]string{m.signer.Method().Alg()}),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", apperrors.ErrNotAuthenticated
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.ErrNotAuthenticated
	}
	sessionID, _ := claims["jti"].(string)
	if sessionID == "" {
		return "", apperrors.ErrNotAuthenticated
	}
	return sessionID, nil
}
