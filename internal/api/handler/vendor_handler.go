package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bazaar/marketplace-api/internal/core/ports"
)

type VendorHandler struct {
	service ports.VendorService
}

func NewVendorHandler(service ports.VendorService) *VendorHandler {
	return &VendorHandler{service: service}
}

// ListPending returns vendors awaiting approval.
//
// @Summary      Pending vendors
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]domain.User}
// @Failure      401  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /admin/vendors/pending [get]
func (h *VendorHandler) ListPending(c echo.Context) error {
	vendors, err := h.service.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, vendors)
}

// Approve lets a vendor log in and sell.
//
// @Summary      Approve vendor
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendor user id"
// @Success      200  {object}  envelope{data=domain.User}
// @Failure      400  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /admin/vendors/{id}/approve [post]
func (h *VendorHandler) Approve(c echo.Context) error {
	vendor, err := h.service.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, vendor, "Vendor approved")
}
