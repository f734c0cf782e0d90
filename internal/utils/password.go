package utils

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ErrWeakPassword is returned by CheckPassword.
var ErrWeakPassword = errors.New("password must be at least 6 characters")

// CheckPassword enforces the password policy.
func CheckPassword(plain string) error {
	if utf8.RuneCountInString(plain) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword returns the bcrypt hash of plain. Out of range costs fall
// back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash with a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
