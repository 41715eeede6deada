package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"sync"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Sealer turns a raw website password into its stored form and back.
type Sealer interface {
	Seal(owner, secret string) (string, error)
	Open(owner, sealed string) (string, error)
	Matches(owner, sealed, candidate string) bool
}

// HashSealer stores a salted bcrypt hash. Stored secrets can be verified but never revealed.
type HashSealer struct {
	cost int
}

var _ Sealer = (*HashSealer)(nil)

func NewHashSealer() *HashSealer {
	return &HashSealer{cost: bcrypt.DefaultCost}
}

func (h *HashSealer) Seal(_ string, secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.Validation("password must be at most 72 bytes to be stored as a hash")
	}
	if err != nil {
		return "", errors.Wrap(err, "[HashSealer.Seal] failed to hash secret")
	}
	return string(hash), nil
}

func (h *HashSealer) Open(_, _ string) (string, error) {
	return "", apperrors.ErrSecretUnrecoverable
}

func (h *HashSealer) Matches(_ string, sealed, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(sealed), []byte(candidate)) == nil
}

// Argon2id parameters for per-owner key derivation
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLength    = 32
)

// CipherSealer encrypts secrets with AES-256-GCM under a key derived from the
// server vault key and the owner's email, so one owner's ciphertext will not open for another.
// The key is derived once per owner and the AEAD reused afterwards.
type CipherSealer struct {
	vaultKey  []byte
	deriveKey func(owner string) []byte
	aeads     sync.Map // owner -> cipher.AEAD
}

var _ Sealer = (*CipherSealer)(nil)

func NewCipherSealer(vaultKey []byte) (*CipherSealer, error) {
	if len(vaultKey) == 0 {
		return nil, errors.New("[NewCipherSealer] vault key is required")
	}
	c := &CipherSealer{vaultKey: vaultKey}
	c.deriveKey = c.ownerKey
	return c, nil
}

func (c *CipherSealer) ownerKey(owner string) []byte {
	salt := sha256.Sum256([]byte(owner))
	return argon2.IDKey(c.vaultKey, salt[:], argonTime, argonMemory, argonThreads, keyLength)
}

func (c *CipherSealer) gcm(owner string) (cipher.AEAD, error) {
	if aead, ok := c.aeads.Load(owner); ok {
		return aead.(cipher.AEAD), nil
	}
	block, err := aes.NewCipher(c.deriveKey(owner))
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	actual, _ := c.aeads.LoadOrStore(owner, aead)
	return actual.(cipher.AEAD), nil
}

func (c *CipherSealer) Seal(owner, secret string) (string, error) {
	aead, err := c.gcm(owner)
	if err != nil {
		return "", errors.Wrap(err, "[CipherSealer.Seal] failed to build cipher")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "[CipherSealer.Seal] failed to read nonce")
	}
	out := aead.Seal(nonce, nonce, []byte(secret), []byte(owner))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *CipherSealer) Open(owner, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrap(apperrors.ErrSecretUnrecoverable, "[CipherSealer.Open] bad encoding")
	}
	aead, err := c.gcm(owner)
	if err != nil {
		return "", errors.Wrap(err, "[CipherSealer.Open] failed to build cipher")
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.Wrap(apperrors.ErrSecretUnrecoverable, "[CipherSealer.Open] ciphertext too short")
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(owner))
	if err != nil {
		return "", errors.Wrap(apperrors.ErrSecretUnrecoverable, "[CipherSealer.Open] authentication failed")
	}
	return string(plain), nil
}

func (c *CipherSealer) Matches(owner, sealed, candidate string) bool {
	plain, err := c.Open(owner, sealed)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(candidate)) == 1
}
