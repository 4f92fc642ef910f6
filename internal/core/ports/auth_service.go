package ports

import (
	"context"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	Role             string
	StoreName        string // vendors only
	StoreDescription string // vendors only
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
