package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
)

type notificationService struct {
	repo ports.NotificationRepository
	log  zerolog.Logger
}

// NewNotificationService returns a NotificationService implementation.
func NewNotificationService(repo ports.NotificationRepository, log zerolog.Logger) ports.NotificationService {
	return &notificationService{repo: repo, log: log}
}

// Deliver persists a single notification.
func (s *notificationService) Deliver(ctx context.Context, in ports.NotificationInput) error {
	if in.UserID == "" {
		return fmt.Errorf("deliver notification: %w: empty recipient", domain.ErrInvalidInput)
	}
	typ := in.Type
	if typ == "" {
		typ = domain.NotificationSystem
	}

	n, err := s.repo.Create(ctx, &domain.Notification{
		UserID:  in.UserID,
		Type:    typ,
		Title:   in.Title,
		Message: in.Message,
	})
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}

	s.log.Debug().
		Str("notification_id", n.ID).
		Str("user_id", n.UserID).
		Str("type", string(n.Type)).
		Msg("notification delivered")
	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	items, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}
