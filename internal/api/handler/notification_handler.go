package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bazaar/marketplace-api/internal/core/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List returns the caller's notifications, oldest first.
//
// @Summary      My notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]domain.Notification}
// @Failure      401  {object}  envelope
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListForUser(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return ok(c, items)
}
