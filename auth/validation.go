package auth

import (
	"strings"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/jrsteele09/go-vault-server/users"
)

// SignupRequest carries the fields of a registration form
type SignupRequest struct {
	Username        string
	Email           string
	Mobile          string
	Password        string
	ConfirmPassword string
}

// Validator holds the input rules for the auth flows
type Validator struct{}

// NewValidator returns a Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSignup checks required fields and that the password was confirmed
func (v *Validator) ValidateSignup(req SignupRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return apperrors.Validation("username is required")
	}
	if err := v.ValidateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return apperrors.Validation("password is required")
	}
	if len(req.Password) > users.MaxPasswordBytes {
		return users.ErrPasswordTooLong
	}
	if req.ConfirmPassword == "" {
		return apperrors.Validation("confirm password is required")
	}
	if req.Password != req.ConfirmPassword {
		return apperrors.Validation("passwords do not match")
	}
	return nil
}

// ValidateEmail requires a non-empty address containing "@"
func (v *Validator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.Validation("email is required")
	}
	if !strings.Contains(email, "@") {
		return apperrors.Validation("invalid email format")
	}
	return nil
}
