package notifier

import (
	"context"
	"net/http"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-realtime-notifications/internal/di"
	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-realtime-notifications/pkg/adapters/email"
	"github.com/goliatone/go-realtime-notifications/pkg/commands"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/httpapi"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/notifications"
	"github.com/goliatone/go-realtime-notifications/pkg/options"
	"github.com/goliatone/go-realtime-notifications/pkg/realtime"
	"github.com/goliatone/go-realtime-notifications/pkg/storage"
	"github.com/goliatone/go-realtime-notifications/pkg/templates"
	"github.com/goliatone/go-realtime-notifications/pkg/transport/websocket"
)

// ModuleOptions configure the notifier module facade.
type ModuleOptions struct {
	Config      config.Config
	Storage     storage.Providers
	Logger      logger.Logger
	Translator  i18n.Translator
	Fallbacks   i18n.FallbackResolver
	Broadcaster broadcaster.Broadcaster
	Activity    activity.Hooks
	Observers   []realtime.Observer
	Email       email.Sender
}

// Module bundles the container and exposes high-level accessors.
type Module struct {
	container *di.Container
}

// NewModule assembles storage, the realtime hub, the WebSocket server, the
// notification service and the command registry.
func NewModule(opts ModuleOptions) (*Module, error) {
	container, err := di.New(di.Options{
		Config:      opts.Config,
		Storage:     opts.Storage,
		Logger:      opts.Logger,
		Translator:  opts.Translator,
		Fallbacks:   opts.Fallbacks,
		Broadcaster: opts.Broadcaster,
		Activity:    opts.Activity,
		Observers:   opts.Observers,
		Email:       opts.Email,
	})
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Notifications returns the notification store and producer service.
func (m *Module) Notifications() *notifications.Service {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Notifications
}

// Realtime returns the hub other services push through.
func (m *Module) Realtime() *realtime.Hub {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Hub
}

// WebSocket returns the WebSocket transport, usable as an http.Handler.
func (m *Module) WebSocket() *websocket.Server {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.WebSocket
}

// PushPolicy returns the per-user realtime push policy.
func (m *Module) PushPolicy() *options.PushPolicy {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Policy
}

// Templates returns the localized copy composer.
func (m *Module) Templates() *templates.Composer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Templates
}

// Commands returns the go-command registry.
func (m *Module) Commands() *commands.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Commands
}

// Router builds the HTTP API over the module services. auth.jwt_secret must
// be set.
func (m *Module) Router() (http.Handler, error) {
	if m == nil || m.container == nil {
		return nil, errModuleNotInitialised
	}
	c := m.container
	return httpapi.NewRouter(httpapi.Dependencies{
		Notifications: c.Notifications,
		Users:         c.Storage.Users,
		Push:          c.Policy,
		Presence:      c.Hub,
		WebSocket:     c.WebSocket,
		JWTSecret:     c.Config.Auth.JWTSecret,
		Logger:        c.Logger,
	})
}

// Shutdown closes every live WebSocket session.
func (m *Module) Shutdown(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.WebSocket.Shutdown(ctx)
}

// Config returns the effective module configuration.
func (m *Module) Config() config.Config {
	if m == nil || m.container == nil {
		return config.Config{}
	}
	return m.container.Config
}

// Container returns the internal DI container.
// This is exposed for advanced use cases like direct storage access.
func (m *Module) Container() *di.Container {
	if m == nil {
		return nil
	}
	return m.container
}
