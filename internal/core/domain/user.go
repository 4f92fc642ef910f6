package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

// DefaultCommissionRate is the platform cut applied to every new vendor.
const DefaultCommissionRate = 0.15

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

// User models an account on the marketplace. Vendors carry a VendorProfile,
// whose fields are flattened into the user's JSON representation.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	*VendorProfile
}

// VendorProfile holds the storefront data of a vendor account.
// TotalSales, Rating and ReviewCount are maintained by order and review
// processing, never by registration.
type VendorProfile struct {
	StoreName        string  `json:"storeName"`
	StoreDescription string  `json:"storeDescription"`
	StoreSlug        string  `json:"storeSlug"`
	IsApproved       bool    `json:"isApproved"`
	CommissionRate   float64 `json:"commissionRate"`
	TotalSales       float64 `json:"totalSales"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"reviewCount"`
}

// NewVendorProfile returns the profile every freshly registered vendor starts with.
func NewVendorProfile(storeName, storeDescription string) *VendorProfile {
	return &VendorProfile{
		StoreName:        storeName,
		StoreDescription: storeDescription,
		StoreSlug:        StoreSlug(storeName),
		IsApproved:       false,
		CommissionRate:   DefaultCommissionRate,
	}
}

func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// Approved reports whether the account may sign in. Only vendors can be unapproved.
func (u *User) Approved() bool {
	if !u.IsVendor() {
		return true
	}
	return u.VendorProfile != nil && u.VendorProfile.IsApproved
}

// Clone returns a deep copy so callers never share the vendor profile pointer.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.VendorProfile != nil {
		vp := *u.VendorProfile
		c.VendorProfile = &vp
	}
	return &c
}
