package identity

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "password123"},
		{name: "complex password", password: "P@ssw0rd!#$%^&*()"},
		{name: "unicode password", password: "密码密码密码123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if hash == "" || hash == tt.password {
				t.Fatalf("Hash() = %q, want a bcrypt hash", hash)
			}
			if !hasher.Verify(tt.password, hash) {
				t.Error("Verify() returned false for correct password")
			}
			if hasher.Verify(tt.password+"x", hash) {
				t.Error("Verify() returned true for wrong password")
			}
		})
	}
}

func TestNewPasswordHasherWithCost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "min cost", cost: bcrypt.MinCost, want: bcrypt.MinCost},
		{name: "below min", cost: 1, want: bcrypt.DefaultCost},
		{name: "above max", cost: 99, want: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPasswordHasherWithCost(tt.cost).cost; got != tt.want {
				t.Errorf("cost = %d, want %d", got, tt.want)
			}
		})
	}

	if got := NewPasswordHasher().cost; got != DefaultBcryptCost {
		t.Errorf("NewPasswordHasher().cost = %d, want %d", got, DefaultBcryptCost)
	}
}

func TestPasswordHasher_RejectsOverlongPasswords(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)
	limit := strings.Repeat("a", MaxPasswordBytes)

	hash, err := hasher.Hash(limit)
	if err != nil {
		t.Fatalf("Hash() at the limit error = %v", err)
	}
	if !hasher.Verify(limit, hash) {
		t.Error("Verify() returned false at the limit")
	}

	// bcrypt would ignore everything past the limit, so a longer password
	// sharing the prefix must not be accepted.
	if hasher.Verify(limit+"b", hash) {
		t.Error("Verify() accepted a password longer than the limit")
	}
	if _, err := hasher.Hash(limit + "b"); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Hash() error = %v, want ErrPasswordTooLong", err)
	}
	if hasher.Verify("", "") {
		t.Error("Verify() matched an empty hash")
	}
}
