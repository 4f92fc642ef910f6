package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
	"github.com/bazaar/marketplace-api/internal/pkg/metrics"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

type ProductService struct {
	products ports.ProductRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewProductService(products ports.ProductRepository, users ports.UserRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{products: products, users: users, logger: logger}
}

// ListProducts applies pagination defaults and returns one page of matches.
func (s *ProductService) ListProducts(ctx context.Context, in ports.ListProductsInput) (*ports.ListProductsResult, error) {
	page := in.Page
	if page < 1 {
		page = defaultPage
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	// Pages past this point cannot hold anything and would overflow the offset.
	if lastPage := math.MaxInt/limit + 1; page > lastPage {
		page = lastPage
	}

	items, total, err := s.products.List(ctx, ports.ProductFilter{
		Category: in.Category,
		VendorID: in.VendorID,
		Search:   in.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

// CreateProduct lists a new product under the caller's account.
func (s *ProductService) CreateProduct(ctx context.Context, caller domain.Identity, in ports.CreateProductInput) (*domain.Product, error) {
	if caller.Role != domain.RoleVendor && caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if blank(in.Name) || blank(in.Description) || blank(in.Category) || in.Price == 0 {
		return nil, domain.ErrMissingFields
	}
	if in.Price < 0 || in.Stock < 0 || (in.ComparePrice != nil && *in.ComparePrice < 0) {
		return nil, fmt.Errorf("%w: price and stock must not be negative", domain.ErrInvalidInput)
	}
	slug := domain.Slugify(in.Name)
	if slug == "" {
		return nil, fmt.Errorf("%w: name must contain letters or digits", domain.ErrInvalidInput)
	}

	owner, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("create product: load vendor: %w", err)
	}

	p := &domain.Product{
		Name:         in.Name,
		Slug:         slug,
		Description:  in.Description,
		Price:        in.Price,
		ComparePrice: in.ComparePrice,
		Images:       nonNil(in.Images),
		Category:     in.Category,
		Subcategory:  in.Subcategory,
		Tags:         nonNil(in.Tags),
		VendorID:     owner.ID,
		Vendor:       owner,
		Stock:        in.Stock,
		IsActive:     true,
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Str("vendor_id", owner.ID).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	metrics.ProductsCreatedTotal.WithLabelValues(created.Category).Inc()
	s.logger.Info().Str("product_id", created.ID).Str("vendor_id", owner.ID).Msg("product created")

	return created, nil
}

// UpdateProduct edits a listing owned by the caller (or any listing for admins).
func (s *ProductService) UpdateProduct(ctx context.Context, caller domain.Identity, id string, in ports.UpdateProductInput) (*domain.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.OwnedBy(caller) {
		return nil, domain.ErrForbidden
	}

	upd := ports.ProductUpdate{
		Description:  in.Description,
		Price:        in.Price,
		ComparePrice: in.ComparePrice,
		Category:     in.Category,
		Stock:        in.Stock,
		IsActive:     in.IsActive,
		Images:       in.Images,
		Tags:         in.Tags,
	}
	if in.Name != nil {
		if blank(*in.Name) {
			return nil, domain.ErrMissingFields
		}
		slug := domain.Slugify(*in.Name)
		if slug == "" {
			return nil, fmt.Errorf("%w: name must contain letters or digits", domain.ErrInvalidInput)
		}
		upd.Name, upd.Slug = in.Name, &slug
	}
	if (in.Price != nil && *in.Price <= 0) || (in.Stock != nil && *in.Stock < 0) {
		return nil, fmt.Errorf("%w: price must be positive and stock not negative", domain.ErrInvalidInput)
	}

	updated, err := s.products.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// DeleteProduct removes a listing owned by the caller (or any listing for admins).
func (s *ProductService) DeleteProduct(ctx context.Context, caller domain.Identity, id string) error {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.OwnedBy(caller) {
		return domain.ErrForbidden
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.logger.Info().Str("product_id", id).Str("by", caller.UserID).Msg("product deleted")
	return nil
}

func (s *ProductService) Categories() []string {
	return append([]string(nil), domain.Categories...)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
