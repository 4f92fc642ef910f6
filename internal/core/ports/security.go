package ports

import (
	"context"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// TokenIssuer mints a bearer token bound to a user's id and role.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier decodes a bearer token. Every failure wraps domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// TokenService issues and verifies tokens.
type TokenService interface {
	TokenIssuer
	TokenVerifier
}

// CredentialVerifier decides whether password unlocks the given account.
type CredentialVerifier interface {
	Verify(user *domain.User, password string) bool
}

// PasswordHasher computes the stored one-way representation of a password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// KeyLocker serialises work on a single key (an email during registration).
// The returned func releases the lock.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}
