package mongo

import (
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
)

func TestUserDoc_RoundTripKeepsVendorProfile(t *testing.T) {
	u := &domain.User{
		ID: "vendor-1", Email: "v@example.com", Name: "V", Role: domain.RoleVendor, PasswordHash: "h",
		VendorProfile: &domain.VendorProfile{StoreName: "Tech Store", StoreSlug: "tech-store", CommissionRate: 0.15},
	}
	got := toUserDoc(u).toDomain()
	if got.VendorProfile == nil || got.StoreName != "Tech Store" || got.CommissionRate != 0.15 {
		t.Fatalf("vendor profile lost: %+v", got)
	}
	if got.PasswordHash != "h" {
		t.Fatalf("hash not persisted")
	}

	c := toUserDoc(&domain.User{ID: "c", Role: domain.RoleCustomer})
	if c.Vendor != nil {
		t.Fatalf("customer must not get a vendor sub-document")
	}
}

func TestProductDoc_StripsVendorHash(t *testing.T) {
	p := &domain.Product{ID: "p1", VendorID: "v1", Vendor: &domain.User{ID: "v1", PasswordHash: "secret"}}
	doc := toProductDoc(p)
	if doc.Vendor.PasswordHash != "" {
		t.Fatalf("vendor snapshot must not carry the hash")
	}
	back := doc.toDomain()
	if back.Images == nil || back.Tags == nil {
		t.Fatalf("nil slices should decode as empty")
	}
}

func TestProductFilter(t *testing.T) {
	f := productFilter(ports.ProductFilter{Category: "Electronics", VendorID: "v1", Search: "a.b"})
	if f["category"] != "Electronics" || f["vendor_id"] != "v1" {
		t.Fatalf("exact filters missing: %v", f)
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected name/description disjunction: %v", f["$or"])
	}
	re := or[0].(bson.M)["name"].(primitive.Regex)
	if re.Pattern != `a\.b` || re.Options != "i" {
		t.Fatalf("search must be quoted and case-insensitive: %+v", re)
	}

	if len(productFilter(ports.ProductFilter{})) != 0 {
		t.Fatalf("empty filter should match everything")
	}
}

func TestUserUpdateSet(t *testing.T) {
	approved := true
	name := "New"
	set := userUpdateSet(ports.UserUpdate{Name: &name, IsApproved: &approved})
	if set["name"] != "New" || set["vendor.is_approved"] != true {
		t.Fatalf("unexpected set document: %v", set)
	}
	if _, ok := set["avatar"]; ok {
		t.Fatalf("unset fields must not be written")
	}
	if !vendorFieldsSet(ports.UserUpdate{IsApproved: &approved}) || vendorFieldsSet(ports.UserUpdate{Name: &name}) {
		t.Fatalf("vendorFieldsSet mismatch")
	}
}

func TestProductUpdateSet(t *testing.T) {
	price := 10.5
	set := productUpdateSet(ports.ProductUpdate{Price: &price, Tags: []string{"x"}})
	if set["price"] != 10.5 || len(set) != 2 {
		t.Fatalf("unexpected set document: %v", set)
	}
}

func TestSkipFor(t *testing.T) {
	tests := []struct {
		page, limit int
		want        int64
	}{
		{1, 12, 0},
		{3, 12, 24},
		{math.MaxInt, 100, math.MaxInt64},
		{2305843009213693953, 12, math.MaxInt64},
	}
	for _, tt := range tests {
		if got := skipFor(tt.page, tt.limit); got != tt.want {
			t.Errorf("skipFor(%d,%d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}
