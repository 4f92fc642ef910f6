package ports

import (
	"context"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

// NotificationInput is the DTO queued for asynchronous delivery.
type NotificationInput struct {
	UserID  string
	Type    domain.NotificationType
	Title   string
	Message string
}

// Notifier accepts notifications for asynchronous delivery.
type Notifier interface {
	Enqueue(n NotificationInput)
}

// NotificationService persists and reads user notifications.
type NotificationService interface {
	Deliver(ctx context.Context, n NotificationInput) error
	ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error)
}
