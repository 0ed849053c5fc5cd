package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/transport"
)

func TestNewWiresIndependentHubs(t *testing.T) {
	ctx := context.Background()
	var sends []string
	tr := transport.Func(func(_ context.Context, conn transport.Conn, event string, _ any) error {
		sends = append(sends, conn.ID()+":"+event)
		return nil
	})

	first, err := New(Options{Transport: tr, Config: config.Defaults().Realtime})
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	second, err := New(Options{Transport: tr, Config: config.Defaults().Realtime})
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}

	first.OnUserRegister(ctx, 1, transport.StaticConn{SessionID: "a"})
	if second.Online(1) {
		t.Fatalf("hubs must not share registries")
	}

	first.NotifyUser(ctx, 1, "hello")
	second.NotifyUser(ctx, 1, "hello")
	if len(sends) != 1 || sends[0] != "a:"+EventNotification {
		t.Fatalf("unexpected sends %v", sends)
	}
}

func TestNewRequiresTransport(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrMissingTransport) {
		t.Fatalf("expected ErrMissingTransport, got %v", err)
	}
}
