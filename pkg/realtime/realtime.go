package realtime

import (
	"context"

	internal "github.com/goliatone/go-realtime-notifications/internal/realtime"
	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/transport"
)

// Re-export the core types so callers don't depend on the internal package.
type (
	Registry        = internal.Registry
	Dispatcher      = internal.Dispatcher
	Hub             = internal.Hub
	Outcome         = internal.Outcome
	Observer        = internal.Observer
	ObserverFunc    = internal.ObserverFunc
	Dependencies    = internal.Dependencies
	HubDependencies = internal.HubDependencies
)

const (
	EventNotification = internal.EventNotification
	StatusDelivered   = internal.StatusDelivered
	StatusOffline     = internal.StatusOffline
	StatusFailed      = internal.StatusFailed
)

var (
	ErrMissingRegistry   = internal.ErrMissingRegistry
	ErrMissingTransport  = internal.ErrMissingTransport
	ErrMissingDispatcher = internal.ErrMissingDispatcher

	NewRegistry      = internal.NewRegistry
	NewDispatcher    = internal.NewDispatcher
	NewHub           = internal.NewHub
	ActivityObserver = internal.ActivityObserver
)

// Lifecycle is what a transport adapter reports about its sessions.
type Lifecycle interface {
	OnConnectionOpen(ctx context.Context, conn transport.Conn)
	OnUserRegister(ctx context.Context, userID int64, conn transport.Conn)
	OnConnectionClose(ctx context.Context, conn transport.Conn)
}

// Notifier is what producers use to push persisted notifications.
type Notifier interface {
	NotifyUser(ctx context.Context, userID int64, payload any)
	NotifyUsers(ctx context.Context, userIDs []int64, payload any)
	Online(userID int64) bool
}

var (
	_ Lifecycle = (*Hub)(nil)
	_ Notifier  = (*Hub)(nil)
)

// Options assemble a hub with its own registry and dispatcher.
type Options struct {
	Transport transport.Transport
	Logger    logger.Logger
	Activity  activity.Hooks
	Observers []Observer
	Config    config.RealtimeConfig
}

// New builds a registry, a dispatcher and the hub that owns them.
func New(opts Options) (*Hub, error) {
	registry := NewRegistry()
	observers := append([]Observer{}, opts.Observers...)
	if len(opts.Activity) > 0 {
		observers = append(observers, ActivityObserver(opts.Activity))
	}
	dispatcher, err := NewDispatcher(Dependencies{
		Registry:  registry,
		Transport: opts.Transport,
		Logger:    opts.Logger,
		Observers: observers,
		Config:    opts.Config,
	})
	if err != nil {
		return nil, err
	}
	return NewHub(HubDependencies{
		Registry:   registry,
		Dispatcher: dispatcher,
		Transport:  opts.Transport,
		Logger:     opts.Logger,
		Activity:   opts.Activity,
		Config:     opts.Config,
	})
}
