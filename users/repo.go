package users

import "context"

// UserRepo persists registered users.
// Create fails with ErrDuplicateEmail when the email is taken and
// GetByEmail/GetByID return ErrUserNotFound when nothing matches.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
