package vault

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCipherSealer_DerivesOncePerOwner(t *testing.T) {
	c, err := NewCipherSealer([]byte("server-vault-key"))
	require.NoError(t, err)

	var derivations atomic.Int32
	c.deriveKey = func(owner string) []byte {
		derivations.Add(1)
		return c.ownerKey(owner)
	}

	sealed := make([]string, 0, 5)
	for range 5 {
		s, err := c.Seal("a@x.com", "Ab1!")
		require.NoError(t, err)
		sealed = append(sealed, s)
	}
	for _, s := range sealed {
		plain, err := c.Open("a@x.com", s)
		require.NoError(t, err)
		require.Equal(t, "Ab1!", plain)
		require.True(t, c.Matches("a@x.com", s, "Ab1!"))
	}
	require.Equal(t, int32(1), derivations.Load())

	_, err = c.Open("b@x.com", sealed[0])
	require.Error(t, err)
	require.Equal(t, int32(2), derivations.Load())
}
