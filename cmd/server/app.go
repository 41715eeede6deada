package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jrsteele09/go-vault-server/auth"
	"github.com/jrsteele09/go-vault-server/internal/config"
	"github.com/jrsteele09/go-vault-server/otp"
	"github.com/jrsteele09/go-vault-server/server"
	"github.com/jrsteele09/go-vault-server/sessions"
	fakesessionrepo "github.com/jrsteele09/go-vault-server/sessions/repofakes"
	"github.com/jrsteele09/go-vault-server/storage/postgres"
	"github.com/jrsteele09/go-vault-server/users"
	fakeuserrepo "github.com/jrsteele09/go-vault-server/users/repofake"
	"github.com/jrsteele09/go-vault-server/vault"
	fakevaultrepo "github.com/jrsteele09/go-vault-server/vault/repofake"
	"github.com/rs/zerolog"
)

// app holds the wired services and the resources they own
type app struct {
	services server.Services
	otp      *otp.Issuer
	sessions *sessions.Manager
	db       *sql.DB
	logger   zerolog.Logger
}

func buildApp(ctx context.Context, c config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{logger: logger}

	var (
		userRepo  users.UserRepo
		vaultRepo vault.Repo
	)
	if dsn := c.GetDatabaseURL(); dsn != "" {
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		a.db = db
		userRepo = postgres.NewUsersRepository(db)
		vaultRepo = postgres.NewVaultRepository(db)
		logger.Info().Msg("Using postgres storage")
	} else {
		userRepo = fakeuserrepo.NewFakeUserRepo()
		vaultRepo = fakevaultrepo.NewFakeVaultRepo()
		logger.Warn().Msg("DATABASE_URL not set, using in-memory storage")
	}

	issuer, err := otp.NewIssuer(otp.NewMemoryStore(), buildNotifier(c, logger),
		otp.WithTTL(c.GetOTPTimeout()),
		otp.WithNotifyPolicy(c.GetNotifyTimeout(), c.GetNotifyRetries()),
		otp.WithLogger(logger),
	)
	if err != nil {
		return nil, a.fail(err)
	}
	a.otp = issuer

	signer, err := sessions.NewHMACSigner(c.GetSessionSecret())
	if err != nil {
		return nil, a.fail(err)
	}
	sessionManager, err := sessions.NewManager(fakesessionrepo.NewFakeSessionRepo(), signer,
		sessions.WithTimeout(c.GetSessionTimeout()),
		sessions.WithIssuer(c.GetAppName()),
	)
	if err != nil {
		return nil, a.fail(err)
	}
	a.sessions = sessionManager

	authService, err := auth.NewService(auth.Repos{Users: userRepo}, issuer, sessionManager)
	if err != nil {
		return nil, a.fail(err)
	}

	sealer, err := buildSealer(c, logger)
	if err != nil {
		return nil, a.fail(err)
	}
	vaultService, err := vault.NewService(vaultRepo, sealer)
	if err != nil {
		return nil, a.fail(err)
	}

	a.services = server.Services{Auth: authService, Vault: vaultService}
	return a, nil
}

// buildNotifier mails codes when an SMTP account is configured, otherwise logs them in DEV
func buildNotifier(c config.Config, logger zerolog.Logger) otp.Notifier {
	if c.GetSmtpAccount() == "" {
		if c.GetEnv() != "DEV" {
			logger.Warn().Msg("SMTP_ACCOUNT not set, OTP codes are only written to the log")
		}
		// codes must stay visible even when LOG_LEVEL is above info
		return otp.NewLogNotifier(logger.Level(min(logger.GetLevel(), zerolog.InfoLevel)))
	}
	return otp.NewSMTPNotifier(otp.SMTPConfig{
		Host:     c.GetSmtpHost(),
		Port:     c.GetSmtpPort(),
		Account:  c.GetSmtpAccount(),
		Password: c.GetSmtpPassword(),
		From:     c.GetSmtpFrom(),
		AppName:  c.GetAppName(),
	})
}

func buildSealer(c config.Config, logger zerolog.Logger) (vault.Sealer, error) {
	if key := c.GetVaultKey(); key != nil {
		logger.Info().Msg("Vault entries are encrypted with VAULT_KEY")
		return vault.NewCipherSealer(key)
	}
	logger.Info().Msg("VAULT_KEY not set, vault entries are stored as hashes")
	return vault.NewHashSealer(), nil
}

// runCleanup purges expired codes and sessions until ctx ends
func (a *app) runCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			codes := a.otp.Cleanup()
			sessionsRemoved, err := a.sessions.Cleanup(ctx)
			if err != nil {
				a.logger.Warn().Err(err).Msg("session cleanup failed")
			}
			if codes > 0 || sessionsRemoved > 0 {
				a.logger.Debug().Int("otp", codes).Int("sessions", sessionsRemoved).Msg("expired entries purged")
			}
		}
	}
}

func (a *app) fail(err error) error {
	a.Close()
	return fmt.Errorf("wiring error: %w", err)
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
