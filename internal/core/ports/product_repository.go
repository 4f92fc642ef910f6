package ports

import (
	"context"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// ProductFilter carries all query parameters for listing products.
type ProductFilter struct {
	Category string // optional: exact match
	VendorID string // optional: exact match
	Search   string // optional: case-insensitive substring of name or description
	Page     int    // 1-based
	Limit    int    // rows per page
}

// ProductUpdate carries the editable product fields; nil means unchanged.
type ProductUpdate struct {
	Name         *string
	Slug         *string
	Description  *string
	Price        *float64
	ComparePrice *float64
	Category     *string
	Stock        *int
	IsActive     *bool
	Images       []string
	Tags         []string
}

// ProductRepository defines persistence operations for the catalogue.
type ProductRepository interface {
	// List returns a page of products matching filter and the total match count.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, upd ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
