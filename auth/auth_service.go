package auth

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/jrsteele09/go-vault-server/sessions"
	"github.com/jrsteele09/go-vault-server/users"
	"github.com/pkg/errors"
)

// OTPIssuer mints and checks one-time codes
type OTPIssuer interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(email, code string) bool
}

// SessionManager issues and checks per-login session tokens
type SessionManager interface {
	Create(ctx context.Context, email string) (string, *sessions.Session, error)
	Validate(ctx context.Context, token string) (*sessions.Session, error)
	Revoke(ctx context.Context, token string) error
}

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users users.UserRepo // Repository for user data
}

// LoginResult is returned by a successful login
type LoginResult struct {
	User      users.PublicUser
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Service orchestrates signup, OTP issuance and OTP-verified login.
type Service struct {
	repos     Repos
	otp       OTPIssuer
	sessions  SessionManager
	validator *Validator
	nowTime   func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, otpIssuer OTPIssuer, sessionManager SessionManager, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if otpIssuer == nil {
		return nil, errors.New("[NewService] OTP issuer is required")
	}
	if sessionManager == nil {
		return nil, errors.New("[NewService] session manager is required")
	}

	s := &Service{
		repos:     repos,
		otp:       otpIssuer,
		sessions:  sessionManager,
		validator: NewValidator(),
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Signup registers a new user
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*users.User, error) {
	if err := s.validator.ValidateSignup(req); err != nil {
		return nil, err
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Signup] HashPassword")
	}

	user := &users.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        users.NormaliseEmail(req.Email),
		Mobile:       strings.TrimSpace(req.Mobile),
		PasswordHash: hash,
		DateJoined:   s.nowTime().UTC(),
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.Signup] userRepo.Create")
	}
	return user, nil
}

// RequestOTP sends a fresh code to a registered email
func (s *Service) RequestOTP(ctx context.Context, email string) error {
	email = users.NormaliseEmail(email)
	if email == "" {
		return apperrors.Validation("email is required")
	}

	if _, err := s.repos.Users.GetByEmail(ctx, email); err != nil {
		return errors.Wrap(err, "[Service.RequestOTP] GetByEmail")
	}

	if _, err := s.otp.Issue(ctx, email); err != nil {
		return errors.Wrap(err, "[Service.RequestOTP] otp.Issue")
	}
	return nil
}

// Login checks user existence, then password, then OTP, stopping at the first failure.
// On success a new session is created for the email.
func (s *Service) Login(ctx context.Context, email, password, otpCode string) (*LoginResult, error) {
	email = users.NormaliseEmail(email)

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] GetByEmail")
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !s.otp.Verify(email, strings.TrimSpace(otpCode)) {
		return nil, apperrors.ErrInvalidOtp
	}

	token, session, err := s.sessions.Create(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] sessions.Create")
	}

	return &LoginResult{
		User:      user.Public(),
		Email:     email,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout ends the session behind token
func (s *Service) Logout(ctx context.Context, token string) error {
	if _, err := s.sessions.Validate(ctx, token); err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return errors.Wrap(err, "[Service.Logout] sessions.Revoke")
	}
	return nil
}

// Authenticate resolves a session token to its owner's email
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	session, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return "", err
	}
	return session.Email, nil
}

// Profile returns the user behind an authenticated email
func (s *Service) Profile(ctx context.Context, email string) (*users.User, error) {
	if email == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Profile] GetByEmail")
	}
	return user, nil
}
