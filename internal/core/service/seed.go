package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
)

// Seeder loads the demo storefront: one account per role and two products.
// Records that already exist are left alone, so seeding is safe on every boot.
type Seeder struct {
	users    ports.UserRepository
	products ports.ProductRepository
	hasher   ports.PasswordHasher
	log      zerolog.Logger
}

func NewSeeder(users ports.UserRepository, products ports.ProductRepository, hasher ports.PasswordHasher, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, products: products, hasher: hasher, log: log}
}

type demoAccount struct {
	user     *domain.User
	password string
}

func demoAccounts() []demoAccount {
	return []demoAccount{
		{
			user:     &domain.User{ID: "admin-1", Email: "admin@ecommerce.com", Name: "Admin User", Role: domain.RoleAdmin},
			password: "admin123",
		},
		{
			user: &domain.User{
				ID: "vendor-1", Email: "vendor@example.com", Name: "John Vendor", Role: domain.RoleVendor,
				VendorProfile: &domain.VendorProfile{
					StoreName:        "Tech Store",
					StoreDescription: "Your one-stop shop for electronics",
					StoreSlug:        "tech-store",
					IsApproved:       true,
					CommissionRate:   domain.DefaultCommissionRate,
					TotalSales:       25000,
					Rating:           4.5,
					ReviewCount:      120,
				},
			},
			password: "vendor123",
		},
		{
			user:     &domain.User{ID: "customer-1", Email: "customer@example.com", Name: "Jane Customer", Role: domain.RoleCustomer},
			password: "customer123",
		},
	}
}

func demoProducts() []*domain.Product {
	compare := 249.99
	return []*domain.Product{
		{
			ID:           "product-1",
			Name:         "Wireless Headphones",
			Slug:         "wireless-headphones",
			Description:  "High-quality wireless headphones with noise cancellation",
			Price:        199.99,
			ComparePrice: &compare,
			Images:       []string{"https://placehold.co/400x400?text=Wireless+Headphones"},
			Category:     "Electronics",
			Tags:         []string{"audio", "wireless", "headphones"},
			VendorID:     "vendor-1",
			Stock:        50,
			IsActive:     true,
			Rating:       4.3,
			ReviewCount:  45,
		},
		{
			ID:          "product-2",
			Name:        "Smart Watch",
			Slug:        "smart-watch",
			Description: "Feature-rich smartwatch with health monitoring",
			Price:       299.99,
			Images:      []string{"https://placehold.co/400x400?text=Smart+Watch"},
			Category:    "Electronics",
			Tags:        []string{"wearable", "smart", "health"},
			VendorID:    "vendor-1",
			Stock:       30,
			IsActive:    true,
			Rating:      4.6,
			ReviewCount: 78,
		},
	}
}

// Seed inserts the demo data. It returns the number of records created.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	created := 0
	vendors := make(map[string]*domain.User)

	for _, acc := range demoAccounts() {
		if existing, err := s.users.FindByEmail(ctx, acc.user.Email); err == nil {
			vendors[existing.ID] = existing
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return created, fmt.Errorf("seed %s: %w", acc.user.Email, err)
		}

		hash, err := s.hasher.Hash(acc.password)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", acc.user.Email, err)
		}
		acc.user.PasswordHash = hash

		u, err := s.users.Create(ctx, acc.user)
		if err != nil && !errors.Is(err, domain.ErrUserExists) {
			return created, fmt.Errorf("seed %s: %w", acc.user.Email, err)
		}
		if err == nil {
			vendors[u.ID] = u
			created++
		}
	}

	for _, p := range demoProducts() {
		if _, err := s.products.FindByID(ctx, p.ID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrProductNotFound) {
			return created, fmt.Errorf("seed product %s: %w", p.ID, err)
		}
		p.Vendor = vendors[p.VendorID]
		if _, err := s.products.Create(ctx, p); err != nil {
			return created, fmt.Errorf("seed product %s: %w", p.ID, err)
		}
		created++
	}

	s.log.Info().Int("created", created).Msg("demo data seeded")
	return created, nil
}
