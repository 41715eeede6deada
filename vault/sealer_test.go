package vault_test

import (
	"testing"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/jrsteele09/go-vault-server/vault"
	"github.com/stretchr/testify/require"
)

func TestHashSealer(t *testing.T) {
	s := vault.NewHashSealer()

	sealed, err := s.Seal("a@x.com", "Ab1!")
	require.NoError(t, err)
	require.NotEqual(t, "Ab1!", sealed)

	again, err := s.Seal("a@x.com", "Ab1!")
	require.NoError(t, err)
	require.NotEqual(t, sealed, again, "bcrypt output is salted")

	require.True(t, s.Matches("a@x.com", sealed, "Ab1!"))
	require.False(t, s.Matches("a@x.com", sealed, "Ab1?"))

	_, err = s.Open("a@x.com", sealed)
	require.ErrorIs(t, err, apperrors.ErrSecretUnrecoverable)
}

func TestCipherSealer_RoundTrip(t *testing.T) {
	s, err := vault.NewCipherSealer([]byte("server-vault-key"))
	require.NoError(t, err)

	sealed, err := s.Seal("a@x.com", "Ab1!")
	require.NoError(t, err)
	require.NotContains(t, sealed, "Ab1!")

	plain, err := s.Open("a@x.com", sealed)
	require.NoError(t, err)
	require.Equal(t, "Ab1!", plain)

	require.True(t, s.Matches("a@x.com", sealed, "Ab1!"))
	require.False(t, s.Matches("a@x.com", sealed, "nope"))
}

func TestCipherSealer_OwnerBound(t *testing.T) {
	s, err := vault.NewCipherSealer([]byte("server-vault-key"))
	require.NoError(t, err)

	sealed, err := s.Seal("a@x.com", "Ab1!")
	require.NoError(t, err)

	_, err = s.Open("b@x.com", sealed)
	require.ErrorIs(t, err, apperrors.ErrSecretUnrecoverable)
	require.False(t, s.Matches("b@x.com", sealed, "Ab1!"))
}

func TestCipherSealer_WrongKeyAndGarbage(t *testing.T) {
	s1, err := vault.NewCipherSealer([]byte("key-one"))
	require.NoError(t, err)
	s2, err := vault.NewCipherSealer([]byte("key-two"))
	require.NoError(t, err)

	sealed, err := s1.Seal("a@x.com", "Ab1!")
	require.NoError(t, err)

	_, err = s2.Open("a@x.com", sealed)
	require.ErrorIs(t, err, apperrors.ErrSecretUnrecoverable)

	_, err = s1.Open("a@x.com", "%%%not-base64")
	require.ErrorIs(t, err, apperrors.ErrSecretUnrecoverable)

	_, err = s1.Open("a@x.com", "AAAA")
	require.ErrorIs(t, err, apperrors.ErrSecretUnrecoverable)

	_, err = vault.NewCipherSealer(nil)
	require.Error(t, err)
}
