package domain

import "errors"

// Validation errors (400).
var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrMissingStoreName = errors.New("store name is required for vendors")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotVendor        = errors.New("user is not a vendor")
)

// Authentication errors (401).
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("authorization token required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
)

// Authorization errors (403).
var (
	ErrForbidden       = errors.New("insufficient permissions")
	ErrPendingApproval = errors.New("vendor account pending approval")
)

// Lookup and conflict errors (404, 409).
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserExists      = errors.New("user already exists with this email")
)
