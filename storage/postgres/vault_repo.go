package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-vault-server/vault"
)

var _ vault.Repo = (*VaultRepository)(nil)

type VaultRepository struct {
	db DBTX
}

func NewVaultRepository(db DBTX) *VaultRepository {
	return &VaultRepository{db: db}
}

func (r *VaultRepository) Create(ctx context.Context, entry *vault.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO vault_entries (id, website, secret, owner_email, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.Website, entry.Secret, entry.OwnerEmail, entry.CreatedAt)
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *VaultRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*vault.Entry, error) {
	query :=
		`SELECT id::text, website, secret, owner_email, created_at FROM vault_entries
		 WHERE owner_email = $1
		 ORDER BY created_at, id
		 `
	return r.query(ctx, query, ownerEmail)
}

func (r *VaultRepository) FindByWebsite(ctx context.Context, ownerEmail, website string) ([]*vault.Entry, error) {
	query :=
		`SELECT id::text, website, secret, owner_email, created_at FROM vault_entries
		 WHERE owner_email = $1 AND website = $2
		 ORDER BY created_at, id
		 `
	return r.query(ctx, query, ownerEmail, website)
}

func (r *VaultRepository) query(ctx context.Context, query string, args ...any) ([]*vault.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	entries := make([]*vault.Entry, 0)
	for rows.Next() {
		e := &vault.Entry{}
		if err := rows.Scan(&e.ID, &e.Website, &e.Secret, &e.OwnerEmail, &e.CreatedAt); err != nil {
			return nil, dbError(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return entries, nil
}
