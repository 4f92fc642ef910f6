package ports

import (
	"context"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// ListProductsInput carries the raw list query; the service applies defaults.
type ListProductsInput struct {
	Category string
	VendorID string
	Search   string
	Page     int
	Limit    int
}

// ListProductsResult is returned by ListProducts.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CreateProductInput carries the fields of a new listing.
type CreateProductInput struct {
	Name         string
	Description  string
	Price        float64
	ComparePrice *float64
	Images       []string
	Category     string
	Subcategory  string
	Tags         []string
	Stock        int
}

// UpdateProductInput carries a partial listing edit.
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Price        *float64
	ComparePrice *float64
	Category     *string
	Stock        *int
	IsActive     *bool
	Images       []string
	Tags         []string
}

// ProductService defines catalogue use cases.
type ProductService interface {
	ListProducts(ctx context.Context, in ListProductsInput) (*ListProductsResult, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	CreateProduct(ctx context.Context, caller domain.Identity, in CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, caller domain.Identity, id string, in UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, caller domain.Identity, id string) error
	Categories() []string
}
