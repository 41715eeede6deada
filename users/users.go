package users

import (
	"errors"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// ErrPasswordTooLong rejects passwords bcrypt cannot hash
var ErrPasswordTooLong = apperrors.Validation("password must be at most 72 bytes")

type User struct {
	ID           string    `json:"id,omitempty"`          // Unique identifier for the user
	Username     string    `json:"username,omitempty"`    // Display name chosen at signup
	Email        string    `json:"email,omitempty"`       // Login identity, unique across users
	Mobile       string    `json:"mobile,omitempty"`      // Optional contact number
	PasswordHash string    `json:"-"`                     // Hashed version of the user's password - never serialize
	DateJoined   time.Time `json:"date_joined,omitempty"` // Date and time when the user registered
}

// PublicUser is the view of a user returned to clients
type PublicUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{Username: u.Username, Email: u.Email}
}

// NormaliseEmail trims and lower-cases an address so lookups are case insensitive
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a raw password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
