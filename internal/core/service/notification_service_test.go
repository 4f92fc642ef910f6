package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
	"github.com/bazaar/marketplace-api/internal/infrastructure/db/memory"
)

func TestNotificationService_DeliverAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewNotificationService(memory.NewNotificationRepository(), zerolog.Nop())

	if err := svc.Deliver(ctx, ports.NotificationInput{UserID: "u1", Title: "first"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := svc.Deliver(ctx, ports.NotificationInput{UserID: "u1", Type: domain.NotificationOrder, Title: "second"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	items, err := svc.ListForUser(ctx, "u1")
	if err != nil || len(items) != 2 {
		t.Fatalf("expected two notifications, got %d (%v)", len(items), err)
	}
	if items[0].Type != domain.NotificationSystem || items[0].IsRead {
		t.Fatalf("unexpected defaults %+v", items[0])
	}
	if items[1].Title != "second" || items[1].Type != domain.NotificationOrder {
		t.Fatalf("unexpected order %+v", items[1])
	}

	if others, _ := svc.ListForUser(ctx, "u2"); len(others) != 0 {
		t.Fatalf("notifications leaked across users")
	}
}

func TestNotificationService_RequiresRecipient(t *testing.T) {
	svc := NewNotificationService(memory.NewNotificationRepository(), zerolog.Nop())
	if err := svc.Deliver(context.Background(), ports.NotificationInput{Title: "x"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
