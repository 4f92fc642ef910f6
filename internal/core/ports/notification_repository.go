package ports

import (
	"context"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	FindByUserID(ctx context.Context, userID string) ([]*domain.Notification, error)
}
