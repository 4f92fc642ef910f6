package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// callerIdentity returns the identity attached by the auth middleware. A
// missing identity means the route was wired without the gate.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok || id.UserID == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return id, nil
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.ErrInvalidInput
	}
	return c.Validate(req)
}
