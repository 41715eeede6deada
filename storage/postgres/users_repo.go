package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/jrsteele09/go-vault-server/users"
)

var _ users.UserRepo = (*UsersRepository)(nil)

type UsersRepository struct {
	db DBTX
}

func NewUsersRepository(db DBTX) *UsersRepository {
	return &UsersRepository{db: db}
}

func (r *UsersRepository) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}

	query :=
		`INSERT INTO users (id, username, email, mobile, password_hash, date_joined)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.Mobile, user.PasswordHash, user.DateJoined)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateEmail
		}
		return dbError(err)
	}
	return nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query :=
		`SELECT id::text, username, email, mobile, password_hash, date_joined FROM users
		 WHERE email = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	query :=
		`SELECT id::text, username, email, mobile, password_hash, date_joined FROM users
		 WHERE id = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UsersRepository) scanOne(row *sql.Row) (*users.User, error) {
	u := &users.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Mobile, &u.PasswordHash, &u.DateJoined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, dbError(err)
	}
	return u, nil
}
