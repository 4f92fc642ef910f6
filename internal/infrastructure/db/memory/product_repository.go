package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
)

// ProductRepository keeps products in insertion order.
type ProductRepository struct {
	mu       sync.RWMutex
	products []*domain.Product
	now      func() time.Time
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *ProductRepository) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(f.Search)
	var matched []*domain.Product
	for _, p := range r.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.VendorID != "" && p.VendorID != f.VendorID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	start, end := pageBounds(len(matched), f.Page, f.Limit)

	page := make([]*domain.Product, 0, end-start)
	for _, p := range matched[start:end] {
		page = append(page, p.Clone())
	}
	return page, total, nil
}

// pageBounds converts a 1-based page and a limit into slice bounds clamped to n.
func pageBounds(n, page, limit int) (int, int) {
	if limit <= 0 {
		return 0, n
	}
	if page < 1 {
		page = 1
	}
	if page-1 > n/limit {
		return n, n
	}
	start := (page - 1) * limit
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.products[i].Clone(), nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *ProductRepository) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug {
			return p.Clone(), nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := p.Clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := r.now()
	c.CreatedAt, c.UpdatedAt = now, now

	r.products = append(r.products, c)
	return c.Clone(), nil
}

func (r *ProductRepository) Update(_ context.Context, id string, upd ports.ProductUpdate) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}

	p := r.products[i].Clone()
	applyProductUpdate(p, upd)
	p.UpdatedAt = r.now()

	r.products[i] = p
	return p.Clone(), nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

// indexOf must be called with r.mu held.
func (r *ProductRepository) indexOf(id string) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func applyProductUpdate(p *domain.Product, upd ports.ProductUpdate) {
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Slug != nil {
		p.Slug = *upd.Slug
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.ComparePrice != nil {
		cp := *upd.ComparePrice
		p.ComparePrice = &cp
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	if upd.Images != nil {
		p.Images = append([]string(nil), upd.Images...)
	}
	if upd.Tags != nil {
		p.Tags = append([]string(nil), upd.Tags...)
	}
}
