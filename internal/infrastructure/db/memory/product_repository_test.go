package memory

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
)

func seedProducts(t *testing.T, repo *ProductRepository) {
	t.Helper()
	items := []*domain.Product{
		{ID: "p1", Name: "Wireless Headphones", Slug: "wireless-headphones", Description: "noise cancelling", Category: "Electronics", VendorID: "v1"},
		{ID: "p2", Name: "Smart Watch", Slug: "smart-watch", Description: "health monitoring", Category: "Electronics", VendorID: "v1"},
		{ID: "p3", Name: "Trail Shoes", Slug: "trail-shoes", Description: "for WIRELESS runners", Category: "Sports", VendorID: "v2"},
	}
	for _, p := range items {
		if _, err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestProductRepository_ListFilters(t *testing.T) {
	repo := NewProductRepository()
	seedProducts(t, repo)

	tests := []struct {
		name    string
		filter  ports.ProductFilter
		wantIDs []string
	}{
		{"all", ports.ProductFilter{}, []string{"p1", "p2", "p3"}},
		{"category", ports.ProductFilter{Category: "Electronics"}, []string{"p1", "p2"}},
		{"vendor", ports.ProductFilter{VendorID: "v2"}, []string{"p3"}},
		{"search name or description, any case", ports.ProductFilter{Search: "wireless"}, []string{"p1", "p3"}},
		{"combined", ports.ProductFilter{Category: "Electronics", Search: "HEALTH"}, []string{"p2"}},
		{"no match", ports.ProductFilter{Category: "Books"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := repo.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if int(total) != len(tt.wantIDs) || len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d items, got %d (total %d)", len(tt.wantIDs), len(got), total)
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Fatalf("item %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestProductRepository_ListPagination(t *testing.T) {
	repo := NewProductRepository()
	seedProducts(t, repo)

	got, total, _ := repo.List(context.Background(), ports.ProductFilter{Category: "Electronics", Page: 1, Limit: 1})
	if total != 2 || len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("page 1: total=%d items=%v", total, got)
	}
	got, _, _ = repo.List(context.Background(), ports.ProductFilter{Category: "Electronics", Page: 2, Limit: 1})
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("page 2: %v", got)
	}
	got, total, _ = repo.List(context.Background(), ports.ProductFilter{Page: 9, Limit: 2})
	if total != 3 || len(got) != 0 {
		t.Fatalf("out of range page should be empty, got %d (total %d)", len(got), total)
	}
}

func TestProductRepository_UpdateAndDelete(t *testing.T) {
	repo := NewProductRepository()
	seedProducts(t, repo)
	ctx := context.Background()

	stock := 0
	name := "Smart Watch 2"
	slug := "smart-watch-2"
	p, err := repo.Update(ctx, "p2", ports.ProductUpdate{Stock: &stock, Name: &name, Slug: &slug})
	if err != nil || p.Stock != 0 || p.Name != name {
		t.Fatalf("update: %+v %v", p, err)
	}
	if bySlug, err := repo.FindBySlug(ctx, "smart-watch-2"); err != nil || bySlug.ID != "p2" {
		t.Fatalf("find by new slug: %+v %v", bySlug, err)
	}

	if err := repo.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, "p1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "p1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("second delete should fail, got %v", err)
	}
	if _, err := repo.Update(ctx, "nope", ports.ProductUpdate{}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct{ n, page, limit, start, end int }{
		{10, 1, 3, 0, 3},
		{10, 4, 3, 9, 10},
		{10, 5, 3, 10, 10},
		{10, 0, 3, 0, 3},
		{10, 1, 0, 0, 10},
		{0, 1, 5, 0, 0},
		{10, 2305843009213693953, 12, 10, 10},
		{10, math.MaxInt, 100, 10, 10},
		{0, math.MaxInt, 1, 0, 0},
	}
	for _, tt := range tests {
		s, e := pageBounds(tt.n, tt.page, tt.limit)
		if s != tt.start || e != tt.end {
			t.Errorf("pageBounds(%d,%d,%d) = %d,%d want %d,%d", tt.n, tt.page, tt.limit, s, e, tt.start, tt.end)
		}
	}
}
