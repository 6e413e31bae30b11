package identity

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used for account passwords unless BCRYPT_COST says
// otherwise.
const DefaultBcryptCost = 12

// ErrPasswordTooLong is returned for passwords bcrypt would silently cut
// short. Registration rejects them earlier with MsgPasswordLong.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher turns account passwords into the hashes kept on User
// records and checks sign-in attempts against them.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher uses DefaultBcryptCost.
func NewPasswordHasher() *PasswordHasher {
	return NewPasswordHasherWithCost(DefaultBcryptCost)
}

// NewPasswordHasherWithCost uses an explicit cost. Tests pass bcrypt.MinCost.
// Out of range costs fall back to bcrypt.DefaultCost.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the stored form of a new account's password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether a sign-in password matches an account's stored
// hash. Passwords too long to have been stored never match.
func (h *PasswordHasher) Verify(password, hash string) bool {
	if len(password) > MaxPasswordBytes || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
