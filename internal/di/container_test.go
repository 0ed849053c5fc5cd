package di

import (
	"context"
	"testing"

	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/transport"
	"github.com/goliatone/go-realtime-notifications/pkg/storage"
)

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	if c.Notifications == nil || c.Hub == nil || c.WebSocket == nil || c.Commands == nil || c.Policy == nil {
		t.Fatalf("expected every component to be wired: %+v", c)
	}
	if c.Config.Localization.DefaultLocale != "pt" {
		t.Fatalf("expected default config, got %+v", c.Config.Localization)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Realtime.SupersedePolicy = "sometimes"
	if _, err := New(Options{Config: cfg}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestOfflineDeliveryIsLogged(t *testing.T) {
	providers := storage.NewMemoryProviders([]domain.User{{ID: 5, Username: "eva"}})
	c, err := New(Options{Storage: providers})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	ctx := context.Background()
	n, err := c.Notifications.NotifyFileShare(ctx, 5, "a.pdf", "rui")
	if err != nil {
		t.Fatalf("file share: %v", err)
	}
	records, err := providers.Deliveries.ListByNotification(ctx, n.ID)
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	if len(records) != 1 || records[0].Status != "offline" {
		t.Fatalf("expected one offline record, got %+v", records)
	}

	// a connection the websocket server never served fails to send
	c.Hub.OnUserRegister(ctx, 5, transport.StaticConn{SessionID: "ghost"})
	n2, err := c.Notifications.NotifyEditorPromotion(ctx, 5, "ana")
	if err != nil {
		t.Fatalf("promotion: %v", err)
	}
	records, err = providers.Deliveries.ListByNotification(ctx, n2.ID)
	if err != nil {
		t.Fatalf("deliveries: %v", err)
	}
	if len(records) != 1 || records[0].Status != "failed" || records[0].ConnectionID != "ghost" {
		t.Fatalf("expected one failed record, got %+v", records)
	}
	if c.Hub.Online(5) {
		t.Fatalf("failed connection should be evicted")
	}
}
