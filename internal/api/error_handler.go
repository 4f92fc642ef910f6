package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// errorResponse is the failure form of the response envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type errorMapping struct {
	target  error
	status  int
	message string
}

// Order matters: ErrTokenExpired wraps under ErrInvalidToken and must match first.
var errorMappings = []errorMapping{
	{domain.ErrMissingFields, http.StatusBadRequest, "Missing required fields"},
	{domain.ErrMissingStoreName, http.StatusBadRequest, "Store name is required for vendors"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{domain.ErrNotVendor, http.StatusBadRequest, "User is not a vendor"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrMissingToken, http.StatusUnauthorized, "Authorization token required"},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "Token has expired"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{domain.ErrPendingApproval, http.StatusForbidden, "Vendor account pending approval"},
	{domain.ErrForbidden, http.StatusForbidden, "Insufficient permissions"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{domain.ErrUserExists, http.StatusConflict, "User already exists with this email"},
}

// NewHTTPErrorHandler maps domain errors to status codes with fixed messages.
// Unknown errors are logged and reported as a bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status == http.StatusBadRequest {
				log.Debug().Err(err).Str("path", c.Path()).Msg("request rejected")
			}
			return m.status, m.message
		}
	}

	// Router 404/405 and similar come through as echo errors.
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}
