package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/jrsteele09/go-vault-server/vault"
	"github.com/stretchr/testify/require"
)

const (
	insertEntryQ = `(?s)^INSERT\s+INTO\s+vault_entries\s*\(id,\s*website,\s*secret,\s*owner_email,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	listByOwnerQ = `(?s)^SELECT\s+id::text,\s*website,\s*secret,\s*owner_email,\s*created_at\s+FROM\s+vault_entries\s+WHERE\s+owner_email\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	byWebsiteQ   = `(?s)^SELECT\s+id::text,\s*website,\s*secret,\s*owner_email,\s*created_at\s+FROM\s+vault_entries\s+WHERE\s+owner_email\s*=\s*\$1\s+AND\s+website\s*=\s*\$2\s+ORDER\s+BY\s+created_at,\s*id\s*$`
)

var entryColumns = []string{"id", "website", "secret", "owner_email", "created_at"}

func newVaultRepoWithMock(t *testing.T) (*VaultRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewVaultRepository(db), mock
}

func TestVaultCreate(t *testing.T) {
	repo, mock := newVaultRepoWithMock(t)
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(insertEntryQ).
		WithArgs("e-1", "github.com", "sealed", "a@x.com", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &vault.Entry{
		ID: "e-1", Website: "github.com", Secret: "sealed", OwnerEmail: "a@x.com", CreatedAt: created,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultCreate_DBError(t *testing.T) {
	repo, mock := newVaultRepoWithMock(t)
	mock.ExpectExec(insertEntryQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &vault.Entry{Website: "github.com", Secret: "s", OwnerEmail: "a@x.com"})
	require.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestVaultListByOwner(t *testing.T) {
	repo, mock := newVaultRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(listByOwnerQ).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow("e-1", "github.com", "s1", "a@x.com", now).
			AddRow("e-2", "gitlab.com", "s2", "a@x.com", now.Add(time.Second)))

	entries, err := repo.ListByOwner(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "github.com", entries[0].Website)
	require.Equal(t, "s2", entries[1].Secret)
}

func TestVaultListByOwner_Empty(t *testing.T) {
	repo, mock := newVaultRepoWithMock(t)
	mock.ExpectQuery(listByOwnerQ).WithArgs("a@x.com").WillReturnRows(sqlmock.NewRows(entryColumns))

	entries, err := repo.ListByOwner(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, entries)
	require.Empty(t, entries)
}

func TestVaultListByOwner_Errors(t *testing.T) {
	repo, mock := newVaultRepoWithMock(t)

	mock.ExpectQuery(listByOwnerQ).WithArgs("a@x.com").WillReturnError(errors.New("db down"))
	_, err := repo.ListByOwner(context.Background(), "a@x.com")
	require.ErrorIs(t, err, apperrors.ErrPersistence)

	mock.ExpectQuery(listByOwnerQ).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow("e-1", "github.com", "s1", "a@x.com", time.Now()).
			RowError(0, errors.New("row broke")))
	_, err = repo.ListByOwner(context.Background(), "a@x.com")
	require.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestVaultFindByWebsite(t *testing.T) {
	repo, mock := newVaultRepoWithMock(t)

	mock.ExpectQuery(byWebsiteQ).
		WithArgs("a@x.com", "github.com").
		WillReturnRows(sqlmock.NewRows(entryColumns).AddRow("e-1", "github.com", "s1", "a@x.com", time.Now()))

	entries, err := repo.FindByWebsite(context.Background(), "a@x.com", "github.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a@x.com", entries[0].OwnerEmail)
}
