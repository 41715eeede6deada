package users_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/jrsteele09/go-vault-server/users"
	fakeuserrepo "github.com/jrsteele09/go-vault-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := users.HashPassword("p1")
	require.NoError(t, err)
	require.NotEqual(t, "p1", hash)

	again, err := users.HashPassword("p1")
	require.NoError(t, err)
	require.NotEqual(t, hash, again, "hashes must be salted")

	require.True(t, users.CheckPasswordHash("p1", hash))
	require.False(t, users.CheckPasswordHash("p2", hash))
	require.False(t, users.CheckPasswordHash("p1", "not-a-hash"))
}

func TestUser_PublicAndCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("secret")
	require.NoError(t, err)

	u := &users.User{ID: "u-1", Username: "alice", Email: "a@x.com", PasswordHash: hash}
	require.True(t, u.CheckPassword("secret"))
	require.Equal(t, users.PublicUser{Username: "alice", Email: "a@x.com"}, u.Public())
}

func TestNormaliseEmail(t *testing.T) {
	require.Equal(t, "a@x.com", users.NormaliseEmail("  A@X.com "))
}

func TestFakeUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	require.False(t, u.DateJoined.IsZero())

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", byID.Email)

	err = repo.Create(ctx, &users.User{Username: "bob", Email: "a@x.com"})
	require.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	_, err = repo.GetByEmail(ctx, "missing@x.com")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestFakeUserRepo_ConcurrentSignupSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Create(ctx, &users.User{Username: "x", Email: "race@x.com"})
		}()
	}
	wg.Wait()
	close(results)

	created := 0
	for err := range results {
		if err == nil {
			created++
		} else {
			require.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
		}
	}
	require.Equal(t, 1, created)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := users.HashPassword(strings.Repeat("a", users.MaxPasswordBytes))
	require.NoError(t, err)

	_, err = users.HashPassword(strings.Repeat("a", users.MaxPasswordBytes+1))
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.Equal(t, 400, apperrors.HTTPStatus(err))
}
