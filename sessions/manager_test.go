package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/jrsteele09/go-vault-server/sessions"
	fakesessionrepo "github.com/jrsteele09/go-vault-server/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-session-secret")

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newManager(t *testing.T, clock *testClock) (*sessions.Manager, sessions.Repo) {
	t.Helper()
	repo := fakesessionrepo.NewFakeSessionRepo()
	signer, err := sessions.NewHMACSigner(testSecret)
	require.NoError(t, err)
	m, err := sessions.NewManager(repo, signer,
		sessions.WithTimeout(10*time.Minute),
		sessions.WithNowFunc(clock.Now),
	)
	require.NoError(t, err)
	return m, repo
}

func TestNewManager_RequiresDependencies(t *testing.T) {
	signer, err := sessions.NewHMACSigner(testSecret)
	require.NoError(t, err)

	_, err = sessions.NewManager(nil, signer)
	require.Error(t, err)

	_, err = sessions.NewManager(fakesessionrepo.NewFakeSessionRepo(), nil)
	require.Error(t, err)

	_, err = sessions.NewHMACSigner(nil)
	require.Error(t, err)
}

func TestManager_CreateAndValidate(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Now()}
	m, _ := newManager(t, clock)

	token, session, err := m.Create(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "a@x.com", session.Email)
	require.Equal(t, clock.now.Add(10*time.Minute), session.ExpiresAt)

	got, err := m.Validate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, session.ID, got.ID)
	require.Equal(t, "a@x.com", got.Email)
}

func TestManager_IndependentSessions(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, &testClock{now: time.Now()})

	tokenA, _, err := m.Create(ctx, "a@x.com")
	require.NoError(t, err)
	tokenB, _, err := m.Create(ctx, "b@x.com")
	require.NoError(t, err)

	a, err := m.Validate(ctx, tokenA)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", a.Email)

	b, err := m.Validate(ctx, tokenB)
	require.NoError(t, err)
	require.Equal(t, "b@x.com", b.Email)
}

func TestManager_Revoke(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, &testClock{now: time.Now()})

	token, _, err := m.Create(ctx, "a@x.com")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))
	_, err = m.Validate(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	// second revoke is harmless
	require.NoError(t, m.Revoke(ctx, token))
}

func TestManager_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Now()}
	m, _ := newManager(t, clock)

	token, _, err := m.Create(ctx, "a@x.com")
	require.NoError(t, err)

	clock.now = clock.now.Add(11 * time.Minute)
	_, err = m.Validate(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestManager_Cleanup(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Now()}
	m, repo := newManager(t, clock)

	_, old, err := m.Create(ctx, "a@x.com")
	require.NoError(t, err)

	clock.now = clock.now.Add(5 * time.Minute)
	_, fresh, err := m.Create(ctx, "b@x.com")
	require.NoError(t, err)

	clock.now = clock.now.Add(6 * time.Minute)
	removed, err := m.Cleanup(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = repo.Get(ctx, old.ID)
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	_, err = repo.Get(ctx, fresh.ID)
	require.NoError(t, err)
}

func TestManager_RejectsForgedTokens(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, &testClock{now: time.Now()})

	_, session, err := m.Create(ctx, "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: sign(t, []byte("other"), jwt.MapClaims{
			"sub": "a@x.com", "jti": session.ID, "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{name: "unknown session", token: sign(t, testSecret, jwt.MapClaims{
			"sub": "a@x.com", "jti": "missing", "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{name: "no expiry", token: sign(t, testSecret, jwt.MapClaims{
			"sub": "a@x.com", "jti": session.ID,
		})},
		{name: "no jti", token: sign(t, testSecret, jwt.MapClaims{
			"sub": "a@x.com", "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{name: "alg none", token: unsigned(t, jwt.MapClaims{
			"sub": "a@x.com", "jti": session.ID, "exp": time.Now().Add(time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(ctx, tt.token)
			require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
		})
	}
}

func sign(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func unsigned(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return s
}
