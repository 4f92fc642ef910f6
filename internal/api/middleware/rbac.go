package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/pkg/metrics"
)

// RBAC admits only identities whose role is in allowedRoles. It must run
// after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := domain.IdentityFromContext(c.Request().Context())
			if !ok {
				metrics.GateDenialsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}
			if _, ok := allowed[id.Role]; !ok {
				metrics.GateDenialsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
