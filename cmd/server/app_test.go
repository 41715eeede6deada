package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-vault-server/internal/config"
	"github.com/jrsteele09/go-vault-server/otp"
	"github.com/jrsteele09/go-vault-server/vault"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBuildApp_InMemory(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SMTP_ACCOUNT", "")
	t.Setenv("VAULT_KEY", "")

	a, err := buildApp(context.Background(), config.New(), zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.services.Auth)
	require.NotNil(t, a.services.Vault)
	require.Nil(t, a.db)
}

func TestBuildNotifier(t *testing.T) {
	t.Setenv("SMTP_ACCOUNT", "")
	_, ok := buildNotifier(config.New(), zerolog.Nop()).(*otp.LogNotifier)
	require.True(t, ok)

	t.Setenv("SMTP_ACCOUNT", "vault@example.com")
	_, ok = buildNotifier(config.New(), zerolog.Nop()).(*otp.SMTPNotifier)
	require.True(t, ok)
}

func TestBuildNotifier_CodesVisibleAboveInfo(t *testing.T) {
	t.Setenv("SMTP_ACCOUNT", "")
	var buf strings.Builder
	logger := zerolog.New(&buf).Level(zerolog.WarnLevel)

	n := buildNotifier(config.New(), logger)
	require.NoError(t, n.Send(context.Background(), "a@x.com", "654321"))
	require.Contains(t, buf.String(), "654321")
}

func TestBuildSealer(t *testing.T) {
	t.Setenv("VAULT_KEY", "")
	s, err := buildSealer(config.New(), zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &vault.HashSealer{}, s)

	t.Setenv("VAULT_KEY", "k")
	s, err = buildSealer(config.New(), zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &vault.CipherSealer{}, s)
}

func TestRunCleanup_StopsWithContext(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	a, err := buildApp(context.Background(), config.New(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.runCleanup(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
