// Package otp mints short lived one-time codes, stores them per email and
// delivers them to the user out of band.
package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Entry is the live code for one email
type Entry struct {
	Email     string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// GenerateCode returns a six digit code drawn uniformly from [100000, 999999]
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
