package ports

import (
	"context"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// VendorService covers the admin side of vendor onboarding.
type VendorService interface {
	ListPending(ctx context.Context) ([]*domain.User, error)
	Approve(ctx context.Context, vendorID string) (*domain.User, error)
}
