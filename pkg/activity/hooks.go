package activity

import (
	"context"
	"time"
)

// Verbs emitted by the realtime hub and the notification service.
const (
	VerbConnectionRegistered = "realtime.registered"
	VerbConnectionSuperseded = "realtime.superseded"
	VerbConnectionClosed     = "realtime.closed"
	VerbDeliveryFailed       = "realtime.delivery_failed"

	VerbNotificationCreated = "notification.created"
	VerbNotificationRead    = "notification.read"
	VerbNotificationReadAll = "notification.read_all"
	VerbNotificationDeleted = "notification.deleted"
	VerbNotificationCleared = "notification.cleared"
)

// Event captures the common fields consumers need to record audit events.
// ActorID is zero for system initiated changes.
type Event struct {
	Verb         string
	ActorID      int64
	UserID       int64
	ObjectType   string
	ObjectID     string
	ConnectionID string
	Metadata     map[string]any
	OccurredAt   time.Time
}

// Hook observers receive activity events.
type Hook interface {
	Notify(ctx context.Context, evt Event)
}

// HookFunc adapts a function into a Hook.
type HookFunc func(ctx context.Context, evt Event)

// Notify implements Hook.
func (f HookFunc) Notify(ctx context.Context, evt Event) {
	if f != nil {
		f(ctx, evt)
	}
}

// Hooks provides a convenient fan-out collection.
type Hooks []Hook

// Notify delivers the event to every hook, skipping nil entries.
func (h Hooks) Notify(ctx context.Context, evt Event) {
	if len(h) == 0 {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.Notify(ctx, evt)
	}
}

// Nop is a no-op hook useful for defaults.
type Nop struct{}

func (Nop) Notify(_ context.Context, _ Event) {}

// CloneMetadata makes a shallow copy so hooks can mutate without affecting callers.
func CloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
