package domain

import "time"

// Categories is the fixed catalogue taxonomy shown to shoppers.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Home & Garden",
	"Sports",
	"Books",
	"Beauty",
	"Automotive",
	"Toys",
}

// Product is a catalogue item listed by a vendor.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ComparePrice *float64  `json:"comparePrice,omitempty"`
	Images       []string  `json:"images"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory,omitempty"`
	Tags         []string  `json:"tags"`
	VendorID     string    `json:"vendorId"`
	Vendor       *User     `json:"vendor,omitempty"`
	Stock        int       `json:"stock"`
	IsActive     bool      `json:"isActive"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"reviewCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OwnedBy reports whether the caller may modify the product.
func (p *Product) OwnedBy(id Identity) bool {
	return id.IsAdmin() || (id.Role == RoleVendor && p.VendorID == id.UserID)
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Images = append([]string(nil), p.Images...)
	c.Tags = append([]string(nil), p.Tags...)
	if p.ComparePrice != nil {
		cp := *p.ComparePrice
		c.ComparePrice = &cp
	}
	c.Vendor = p.Vendor.Clone()
	return &c
}
