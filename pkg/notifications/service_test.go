package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-realtime-notifications/internal/storage/memory"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/templates"
)

func TestNilServiceIsNotInitialised(t *testing.T) {
	var svc *Service
	if _, err := svc.List(context.Background(), 1, Query{}); !errors.Is(err, errServiceNotInitialised) {
		t.Fatalf("expected errServiceNotInitialised, got %v", err)
	}
}

func TestFacadeDelegates(t *testing.T) {
	composer, err := templates.New(templates.Dependencies{})
	if err != nil {
		t.Fatalf("composer: %v", err)
	}
	svc, err := New(Dependencies{
		Notifications: memory.NewNotificationRepository(),
		Users:         memory.NewUserRepository(domain.User{ID: 5, Username: "joana"}),
		Composer:      composer,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	n, err := svc.NotifyEditorPromotion(ctx, 5, "ana")
	if err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if n.Title != "Promoção a Editor" || n.Data["promoted_by"] != "ana" {
		t.Fatalf("unexpected notification %+v", n)
	}
	count, err := svc.UnreadCount(ctx, 5)
	if err != nil || count != 1 {
		t.Fatalf("unread count: %d %v", count, err)
	}
	if _, err := svc.Get(ctx, 6, n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
