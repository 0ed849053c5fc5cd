package commands

import (
	"context"
	"testing"

	"github.com/goliatone/go-realtime-notifications/internal/storage/memory"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/notifications"
	"github.com/goliatone/go-realtime-notifications/pkg/options"
	"github.com/goliatone/go-realtime-notifications/pkg/templates"
)

func TestRegistryRunsAgainstServices(t *testing.T) {
	ctx := context.Background()
	composer, err := templates.New(templates.Dependencies{})
	if err != nil {
		t.Fatalf("composer: %v", err)
	}
	repo := memory.NewNotificationRepository()
	svc, err := notifications.New(notifications.Dependencies{
		Notifications: repo,
		Users:         memory.NewUserRepository(domain.User{ID: 9, Username: "eva"}),
		Composer:      composer,
	})
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	policy, err := options.NewPushPolicy(config.PushConfig{}, memory.NewPushPreferenceRepository(), nil)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	registry, err := New(Dependencies{Notifications: svc, Policy: policy})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if got := len(registry.Commanders()); got != 9 {
		t.Fatalf("expected 9 commanders, got %d", got)
	}

	if err := registry.NotifyFileShare.Execute(ctx, NotifyFileShare{UserID: 9, FileName: "a.pdf", SharedBy: "rui"}); err != nil {
		t.Fatalf("file share: %v", err)
	}
	count, err := svc.UnreadCount(ctx, 9)
	if err != nil || count != 1 {
		t.Fatalf("unread count: %d %v", count, err)
	}
	if err := registry.MarkAllRead.Execute(ctx, MarkAllRead{UserID: 9}); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if err := registry.SetPushMuted.Execute(ctx, SetPushMuted{UserID: 9, Type: "content_update", Muted: true}); err != nil {
		t.Fatalf("mute: %v", err)
	}
	if policy.ShouldPush(ctx, 9, domain.TypeContentUpdate) {
		t.Fatalf("expected content_update muted")
	}
}

func TestNewWithoutServicesFails(t *testing.T) {
	if _, err := New(Dependencies{}); err == nil {
		t.Fatalf("expected error")
	}
}
