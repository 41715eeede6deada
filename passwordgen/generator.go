// Package passwordgen builds random passwords from a format string where
// each character picks the class of the character at that position.
package passwordgen

import (
	"crypto/rand"
	"math/big"
	"strings"

	apperrors "github.com/jrsteele09/go-vault-server/internal/errors"
	"github.com/pkg/errors"
)

// Character classes addressed by the format letters
const (
	Upper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lower    = "abcdefghijklmnopqrstuvwxyz"
	Digits   = "0123456789"
	Specials = "!@#$%^&*()"
)

var classes = map[rune]string{
	'U': Upper,
	'l': Lower,
	'D': Digits,
	'S': Specials,
}

// Generate returns a password with one character per format letter:
// U upper case, l lower case, D digit, S special. Any other letter fails
// with ErrInvalidFormatChar and nothing is returned.
func Generate(format string) (string, error) {
	if format == "" {
		return "", apperrors.Validation("format is required")
	}
	for _, c := range format {
		if _, ok := classes[c]; !ok {
			return "", apperrors.ErrInvalidFormatChar
		}
	}

	var sb strings.Builder
	sb.Grow(len(format))
	for _, c := range format {
		ch, err := pick(classes[c])
		if err != nil {
			return "", errors.Wrap(err, "[passwordgen.Generate] failed to read random source")
		}
		sb.WriteByte(ch)
	}
	return sb.String(), nil
}

func pick(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}
