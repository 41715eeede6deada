package config

import (
	"crypto/rand"
	"sync"
	"time"
)

type Security struct{}

var _ SecurityConfig = Security{}

var (
	ephemeralSecretOnce sync.Once
	ephemeralSecret     []byte
)

func (Security) GetOTPTimeout() time.Duration {
	return GetEnvDuration("OTP_TTL", 5*time.Minute)
}

func (Security) GetSessionTimeout() time.Duration {
	return GetEnvDuration("SESSION_TTL", 30*time.Minute) // Sessions expire after 30 minutes
}

// GetSessionSecret returns the HMAC key for session tokens.
// Without SESSION_SECRET a random per-process key is used, so sessions do not survive a restart.
func (Security) GetSessionSecret() []byte {
	if secret := GetEnv("SESSION_SECRET", ""); secret != "" {
		return []byte(secret)
	}
	ephemeralSecretOnce.Do(func() {
		ephemeralSecret = make([]byte, 32)
		if _, err := rand.Read(ephemeralSecret); err != nil {
			panic("unable to generate session secret: " + err.Error())
		}
	})
	return ephemeralSecret
}

// GetVaultKey enables reversible vault encryption when set; nil keeps hash-only storage
func (Security) GetVaultKey() []byte {
	if key := GetEnv("VAULT_KEY", ""); key != "" {
		return []byte(key)
	}
	return nil
}

func (Security) GetNotifyTimeout() time.Duration {
	return GetEnvDuration("NOTIFY_TIMEOUT", 10*time.Second)
}

func (Security) GetNotifyRetries() int {
	return GetEnvInt("NOTIFY_RETRIES", 1)
}
