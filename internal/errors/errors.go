package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced by the vault server
var (
	// Client-correctable input errors
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidFormatChar  = Validation("invalid format, use 'U', 'l', 'D' and 'S'")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOtp         = errors.New("invalid OTP")

	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")

	// Vault errors
	ErrSecretUnrecoverable = errors.New("stored secret cannot be revealed")

	// External dependency errors
	ErrNotificationFailed = errors.New("failed to send OTP")
	ErrPersistence        = errors.New("storage unavailable")
)

// ValidationError carries the client facing reason for a rejected input
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is makes every ValidationError match ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation returns a ValidationError for reason
func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Persistence marks err as a storage failure while keeping the original cause in the chain
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// HTTPStatus maps an error kind onto a response status.
// PersistenceError and NotificationFailed are the only server-side kinds.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case Is(err, ErrPersistence), Is(err, ErrNotificationFailed):
		return http.StatusInternalServerError
	case Is(err, ErrValidation),
		Is(err, ErrDuplicateEmail),
		Is(err, ErrUserNotFound),
		Is(err, ErrInvalidCredentials),
		Is(err, ErrInvalidOtp),
		Is(err, ErrSecretUnrecoverable):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the human readable text for the outermost known kind of err
func Message(err error) string {
	var ve *ValidationError
	if As(err, &ve) {
		return ve.Reason
	}
	for _, kind := range []error{
		ErrDuplicateEmail,
		ErrUserNotFound,
		ErrInvalidCredentials,
		ErrInvalidOtp,
		ErrNotAuthenticated,
		ErrSecretUnrecoverable,
		ErrNotificationFailed,
		ErrPersistence,
	} {
		if Is(err, kind) {
			return kind.Error()
		}
	}
	if Is(err, ErrValidation) {
		return ErrValidation.Error()
	}
	return "internal error"
}
