package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bazaar/marketplace-api/internal/core/domain"
)

type NotificationRepository struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{byUser: make(map[string][]domain.Notification)}
}

func (r *NotificationRepository) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *n
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	r.byUser[c.UserID] = append(r.byUser[c.UserID], c)
	return &c, nil
}

// FindByUserID returns the user's notifications in delivery order.
func (r *NotificationRepository) FindByUserID(_ context.Context, userID string) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.byUser[userID]
	out := make([]*domain.Notification, len(stored))
	for i := range stored {
		n := stored[i]
		out[i] = &n
	}
	return out, nil
}
