package vault

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/pkg/errors"
)

// Service saves, lists and verifies website passwords for an authenticated owner
type Service struct {
	repo    Repo
	sealer  Sealer
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repo Repo, sealer Sealer, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[vault.NewService] vault repo is required")
	}
	if sealer == nil {
		return nil, errors.New("[vault.NewService] sealer is required")
	}
	s := &Service{repo: repo, sealer: sealer, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// SavePassword seals password and stores it under the owner's email
func (s *Service) SavePassword(ctx context.Context, ownerEmail, website, password string) (*Receipt, error) {
	if ownerEmail == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	website = strings.TrimSpace(website)
	if website == "" {
		return nil, apperrors.Validation("website is required")
	}
	if password == "" {
		return nil, apperrors.Validation("password is required")
	}

	sealed, err := s.sealer.Seal(ownerEmail, password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.SavePassword] failed to seal password")
	}

	entry := &Entry{
		ID:         uuid.New().String(),
		Website:    website,
		Secret:     sealed,
		OwnerEmail: ownerEmail,
		CreatedAt:  s.nowTime().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, errors.Wrap(err, "[Service.SavePassword] failed to store entry")
	}

	return &Receipt{ID: entry.ID, Website: entry.Website, SavedAt: entry.CreatedAt}, nil
}

// ListPasswords returns the owner's entries. When the sealer cannot reveal a
// secret the stored form is returned in its place.
func (s *Service) ListPasswords(ctx context.Context, ownerEmail string) ([]EntryView, error) {
	if ownerEmail == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	entries, err := s.repo.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.ListPasswords] failed to list entries")
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		password, err := s.sealer.Open(e.OwnerEmail, e.Secret)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrSecretUnrecoverable) {
				return nil, errors.Wrap(err, "[Service.ListPasswords] failed to open entry")
			}
			password = e.Secret
		}
		views = append(views, EntryView{Website: e.Website, Password: password})
	}
	return views, nil
}

// VerifyPassword reports whether candidate matches any stored entry for website
func (s *Service) VerifyPassword(ctx context.Context, ownerEmail, website, candidate string) (bool, error) {
	if ownerEmail == "" {
		return false, apperrors.ErrNotAuthenticated
	}
	website = strings.TrimSpace(website)
	if website == "" {
		return false, apperrors.Validation("website is required")
	}
	if candidate == "" {
		return false, apperrors.Validation("password is required")
	}

	entries, err := s.repo.FindByWebsite(ctx, ownerEmail, website)
	if err != nil {
		return false, errors.Wrap(err, "[Service.VerifyPassword] failed to look up entries")
	}
	for _, e := range entries {
		if s.sealer.Matches(e.OwnerEmail, e.Secret, candidate) {
			return true, nil
		}
	}
	return false, nil
}
