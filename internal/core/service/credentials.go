package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
)

const (
	CredentialPolicyDemo   = "demo"
	CredentialPolicyBcrypt = "bcrypt"
)

// demoUniversalPassword unlocks every account under the demo policy.
const demoUniversalPassword = "password123"

// demoPasswords are the fixed demo account pairs.
var demoPasswords = map[string]string{
	"admin@ecommerce.com":  "admin123",
	"vendor@example.com":   "vendor123",
	"customer@example.com": "customer123",
}

// DemoCredentials is a placeholder policy kept for parity with the demo
// storefront: it accepts a universal password for any account plus the fixed
// demo pairs, and ignores the stored password hash entirely.
// Do not run it outside demo environments.
type DemoCredentials struct{}

func (DemoCredentials) Verify(user *domain.User, password string) bool {
	if user == nil || password == "" {
		return false
	}
	if password == demoUniversalPassword {
		return true
	}
	want, ok := demoPasswords[user.Email]
	return ok && password == want
}

// HashedCredentials checks the password against the stored bcrypt hash.
type HashedCredentials struct{}

func (HashedCredentials) Verify(user *domain.User, password string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// NewCredentialVerifier returns the verifier for a configured policy name.
func NewCredentialVerifier(policy string) (ports.CredentialVerifier, error) {
	switch policy {
	case CredentialPolicyDemo, "":
		return DemoCredentials{}, nil
	case CredentialPolicyBcrypt:
		return HashedCredentials{}, nil
	}
	return nil, fmt.Errorf("unknown credential policy %q", policy)
}

// BcryptHasher hashes passwords with bcrypt at a fixed cost. Passwords longer
// than 72 bytes are rejected as invalid input.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password longer than 72 bytes", domain.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
