package ports

import (
	"context"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// UserUpdate carries the mutable account fields. Nil fields are left untouched;
// vendor fields are ignored for accounts without a vendor profile.
type UserUpdate struct {
	Name             *string
	Avatar           *string
	StoreDescription *string
	IsApproved       *bool
	CommissionRate   *float64
}

// UserRepository is the identity store.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByRole(ctx context.Context, role string) ([]*domain.User, error)
	// Create assigns an id (when empty) and timestamps. It must be atomic per
	// email: concurrent creates of one email yield exactly one success and
	// domain.ErrUserExists for the rest.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
}
