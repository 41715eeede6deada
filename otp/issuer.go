package otp

import (
	"context"
	"crypto/subtle"
	"time"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultTTL           = 5 * time.Minute
	defaultNotifyTimeout = 10 * time.Second
)

// Issuer mints, delivers and verifies one-time codes
type Issuer struct {
	store         Store
	notifier      Notifier
	ttl           time.Duration
	notifyTimeout time.Duration
	retries       int
	generate      func() (string, error)
	nowFunc       func() time.Time
	logger        zerolog.Logger
}

type IssuerOption func(*Issuer)

func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		i.ttl = ttl
	}
}

// WithNotifyPolicy bounds each delivery attempt by timeout and allows retries extra attempts
func WithNotifyPolicy(timeout time.Duration, retries int) IssuerOption {
	return func(i *Issuer) {
		i.notifyTimeout = timeout
		i.retries = retries
	}
}

func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// WithCodeGenerator replaces GenerateCode (primarily for testing)
func WithCodeGenerator(gen func() (string, error)) IssuerOption {
	return func(i *Issuer) {
		i.generate = gen
	}
}

func WithLogger(logger zerolog.Logger) IssuerOption {
	return func(i *Issuer) {
		i.logger = logger
	}
}

func NewIssuer(store Store, notifier Notifier, options ...IssuerOption) (*Issuer, error) {
	if store == nil {
		return nil, errors.New("[otp.NewIssuer] store is required")
	}
	if notifier == nil {
		return nil, errors.New("[otp.NewIssuer] notifier is required")
	}

	i := &Issuer{
		store:         store,
		notifier:      notifier,
		ttl:           defaultTTL,
		notifyTimeout: defaultNotifyTimeout,
		retries:       1,
		generate:      GenerateCode,
		nowFunc:       time.Now,
		logger:        log.Logger,
	}
	for _, opt := range options {
		opt(i)
	}
	if i.ttl <= 0 {
		i.ttl = defaultTTL
	}
	if i.notifyTimeout <= 0 {
		i.notifyTimeout = defaultNotifyTimeout
	}
	if i.retries < 0 {
		i.retries = 0
	}
	return i, nil
}

// Issue stores a fresh code for email, replacing any previous one, and sends it.
// If delivery keeps failing the code is withdrawn and ErrNotificationFailed returned.
func (i *Issuer) Issue(ctx context.Context, email string) (string, error) {
	code, err := i.generate()
	if err != nil {
		return "", errors.Wrap(err, "[Issuer.Issue] failed to generate code")
	}

	now := i.nowFunc()
	i.store.Put(&Entry{
		Email:     email,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	})

	var sendErr error
	for attempt := 0; attempt <= i.retries; attempt++ {
		if sendErr = i.send(ctx, email, code); sendErr == nil {
			return code, nil
		}
		i.logger.Warn().Err(sendErr).Str("email", email).Int("attempt", attempt+1).Msg("OTP delivery failed")
		if ctx.Err() != nil {
			break
		}
	}

	i.store.DeleteIf(email, code)
	return "", errors.Wrapf(apperrors.ErrNotificationFailed, "[Issuer.Issue] %v", sendErr)
}

func (i *Issuer) send(ctx context.Context, email, code string) error {
	sendCtx, cancel := context.WithTimeout(ctx, i.notifyTimeout)
	defer cancel()
	return i.notifier.Send(sendCtx, email, code)
}

// Verify reports whether code is the live code for email. A match consumes the code.
func (i *Issuer) Verify(email, code string) bool {
	entry, ok := i.store.Get(email)
	if !ok || code == "" {
		return false
	}
	if entry.Expired(i.nowFunc()) {
		i.store.DeleteIf(email, entry.Code)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(code)) != 1 {
		return false
	}
	// a concurrent Verify may have consumed it first
	return i.store.DeleteIf(email, entry.Code)
}

// Cleanup drops expired codes and reports how many were removed
func (i *Issuer) Cleanup() int {
	return i.store.DeleteExpired(i.nowFunc())
}
