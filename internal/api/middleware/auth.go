package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
	"github.com/bazaar/marketplace-api/internal/pkg/metrics"
)

const bearerPrefix = "bearer "

// Auth verifies the bearer token and attaches the caller's Identity to the
// request context. Failures are returned as domain errors for the central
// error handler.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.GateDenialsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}

			id, err := verifier.Verify(token)
			if err != nil {
				metrics.GateDenialsTotal.WithLabelValues("invalid_token").Inc()
				if errors.Is(err, domain.ErrInvalidToken) {
					return err
				}
				return domain.ErrInvalidToken
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

// Protect is Auth followed by RBAC. With no roles any valid token passes.
func Protect(verifier ports.TokenVerifier, roles ...string) []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{Auth(verifier)}
	if len(roles) > 0 {
		mw = append(mw, RBAC(roles...))
	}
	return mw
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
