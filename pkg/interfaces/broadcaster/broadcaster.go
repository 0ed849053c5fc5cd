package broadcaster

import "context"

// Topics emitted by the notification service.
const (
	TopicCreated = "notification.created"
	TopicRead    = "notification.read"
	TopicReadAll = "notification.read_all"
	TopicDeleted = "notification.deleted"
	TopicCleared = "notification.cleared"
)

// Event carries a notification lifecycle change to interested sinks.
type Event struct {
	Topic   string
	Payload any
}

// Broadcaster receives notification lifecycle events. The realtime hub
// implements it for hosts that push through events only; loggers and audit
// sinks can be attached via Fanout.
type Broadcaster interface {
	Broadcast(ctx context.Context, event Event) error
}

// Nop broadcaster discards events.
type Nop struct{}

var _ Broadcaster = (*Nop)(nil)

func (n *Nop) Broadcast(ctx context.Context, event Event) error { return nil }
