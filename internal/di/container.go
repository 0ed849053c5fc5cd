package di

import (
	"errors"
	"reflect"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-realtime-notifications/pkg/adapters/email"
	"github.com/goliatone/go-realtime-notifications/pkg/commands"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/notifications"
	"github.com/goliatone/go-realtime-notifications/pkg/options"
	"github.com/goliatone/go-realtime-notifications/pkg/realtime"
	"github.com/goliatone/go-realtime-notifications/pkg/storage"
	"github.com/goliatone/go-realtime-notifications/pkg/templates"
	"github.com/goliatone/go-realtime-notifications/pkg/transport/websocket"
)

// Options configure the DI container.
type Options struct {
	Config     config.Config
	Storage    storage.Providers
	Logger     logger.Logger
	Translator i18n.Translator
	Fallbacks  i18n.FallbackResolver
	// Broadcaster receives every lifecycle topic. The hub pushes created
	// notifications itself, so it must not be passed here.
	Broadcaster broadcaster.Broadcaster
	Activity    activity.Hooks
	Observers   []realtime.Observer
	// Email overrides the SES sender built when email.enabled is set.
	Email email.Sender
}

// Container wires storage, realtime, copy, policy, services and commands.
type Container struct {
	Config        config.Config
	Storage       storage.Providers
	Logger        logger.Logger
	WebSocket     *websocket.Server
	Hub           *realtime.Hub
	Templates     *templates.Composer
	Policy        *options.PushPolicy
	Email         email.Sender
	Notifications *notifications.Service
	Commands      *commands.Registry
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

// New constructs the container using the supplied options.
func New(opts Options) (*Container, error) {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	providers := opts.Storage
	if providers.Notifications == nil {
		providers = storage.NewMemoryProviders(nil)
	}
	if providers.Users == nil || providers.Deliveries == nil || providers.PushPreferences == nil {
		return nil, errors.New("di: storage providers are incomplete")
	}

	lgr := opts.Logger
	if lgr == nil {
		lgr = &logger.Nop{}
	}

	b := opts.Broadcaster
	if b == nil {
		b = &broadcaster.Nop{}
	}

	wsServer := websocket.NewServer(websocket.Options{
		Config: cfg.Realtime,
		Logger: lgr.With(logger.String("component", "websocket")),
	})
	observers := append([]realtime.Observer{
		notifications.DeliveryLog(providers.Deliveries, lgr),
	}, opts.Observers...)
	hub, err := realtime.New(realtime.Options{
		Transport: wsServer,
		Logger:    lgr.With(logger.String("component", "realtime")),
		Activity:  opts.Activity,
		Observers: observers,
		Config:    cfg.Realtime,
	})
	if err != nil {
		return nil, err
	}
	wsServer.Bind(hub)

	composer, err := templates.New(templates.Dependencies{
		Translator:    opts.Translator,
		Fallbacks:     opts.Fallbacks,
		DefaultLocale: cfg.Localization.DefaultLocale,
		Logger:        lgr,
	})
	if err != nil {
		return nil, err
	}

	policy, err := options.NewPushPolicy(cfg.Push, providers.PushPreferences, lgr)
	if err != nil {
		return nil, err
	}

	sender := opts.Email
	if sender == nil && cfg.Email.Enabled {
		sender = email.NewSES(email.SESConfig{
			From:   cfg.Email.Sender,
			Region: cfg.Email.Region,
			DryRun: cfg.Email.DryRun,
		}, lgr.With(logger.String("component", "email")))
	}
	if sender == nil {
		sender = email.Nop{}
	}

	notificationSvc, err := notifications.New(notifications.Dependencies{
		Notifications: providers.Notifications,
		Users:         providers.Users,
		Transaction:   providers.Transaction,
		Realtime:      hub,
		Broadcaster:   b,
		Activity:      opts.Activity,
		Composer:      composer,
		Policy:        policy,
		Email:         sender,
		Logger:        lgr,
		Config:        cfg,
	})
	if err != nil {
		return nil, err
	}

	cmdRegistry, err := commands.New(commands.Dependencies{
		Notifications: notificationSvc,
		Policy:        policy,
		Logger:        lgr,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:        cfg,
		Storage:       providers,
		Logger:        lgr,
		WebSocket:     wsServer,
		Hub:           hub,
		Templates:     composer,
		Policy:        policy,
		Email:         sender,
		Notifications: notificationSvc,
		Commands:      cmdRegistry,
	}, nil
}
