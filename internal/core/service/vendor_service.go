package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
	"github.com/bazaar/marketplace-api/internal/pkg/metrics"
)

// VendorService lets admins review and approve vendor accounts.
type VendorService struct {
	users    ports.UserRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewVendorService(users ports.UserRepository, notifier ports.Notifier, log zerolog.Logger) *VendorService {
	return &VendorService{users: users, notifier: notifier, log: log}
}

// ListPending returns vendors that have not been approved yet.
func (s *VendorService) ListPending(ctx context.Context) ([]*domain.User, error) {
	vendors, err := s.users.FindByRole(ctx, domain.RoleVendor)
	if err != nil {
		return nil, fmt.Errorf("list pending vendors: %w", err)
	}
	pending := make([]*domain.User, 0, len(vendors))
	for _, v := range vendors {
		if !v.Approved() {
			pending = append(pending, v)
		}
	}
	return pending, nil
}

// Approve flips the vendor's approval flag. Approving twice is a no-op.
func (s *VendorService) Approve(ctx context.Context, vendorID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("approve vendor: %w", err)
	}
	if !user.IsVendor() || user.VendorProfile == nil {
		return nil, domain.ErrNotVendor
	}
	if user.IsApproved {
		return user, nil
	}

	approved := true
	updated, err := s.users.Update(ctx, vendorID, ports.UserUpdate{IsApproved: &approved})
	if err != nil {
		return nil, fmt.Errorf("approve vendor: %w", err)
	}

	metrics.VendorsApprovedTotal.Inc()
	s.log.Info().Str("vendor_id", vendorID).Str("store", updated.StoreName).Msg("vendor approved")

	if s.notifier != nil {
		s.notifier.Enqueue(ports.NotificationInput{
			UserID:  updated.ID,
			Type:    domain.NotificationSystem,
			Title:   "Your store is live",
			Message: fmt.Sprintf("%s has been approved. You can now sign in and list products.", updated.StoreName),
		})
	}
	return updated, nil
}
