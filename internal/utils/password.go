package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword for passwords bcrypt would
// reject.  Account validation checks the same bound up front.
var ErrPasswordTooLong = errors.New("password too long")

// HashPassword hashes an account or admin password at the given bcrypt cost.
func HashPassword(plain string, cost int) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches hash.  A malformed hash never
// matches.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
