package helpers

import (
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used for stored passwords.
const DefaultPasswordCost = 12

var passwordCost atomic.Int64

func init() { passwordCost.Store(DefaultPasswordCost) }

// SetPasswordCost overrides the bcrypt cost. Values outside bcrypt's range are ignored.
func SetPasswordCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return
	}
	passwordCost.Store(int64(cost))
}

// PasswordCost returns the bcrypt cost currently in effect.
func PasswordCost() int { return int(passwordCost.Load()) }

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
