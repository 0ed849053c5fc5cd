// Package httpapi serves the notification REST routes, the WebSocket
// endpoint and a health probe.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/goliatone/go-realtime-notifications/pkg/notifications"
)

// NotificationService is the store surface the routes need.
type NotificationService interface {
	List(ctx context.Context, userID int64, query notifications.Query) (notifications.ListResult, error)
	Get(ctx context.Context, userID, id int64) (*domain.Notification, error)
	Create(ctx context.Context, input notifications.CreateInput) (*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, userID, id int64) error
	ClearRead(ctx context.Context, userID int64) (int, error)
}

// PushSettings edits the per-user push policy.
type PushSettings interface {
	Mute(ctx context.Context, userID int64, notificationType domain.NotificationType) error
	Unmute(ctx context.Context, userID int64, notificationType domain.NotificationType) error
	Effective(ctx context.Context, userID int64) (map[domain.NotificationType]bool, error)
}

// Presence reports how many users hold a live connection.
type Presence interface {
	OnlineCount() int
}

// Dependencies wires services into the router.
type Dependencies struct {
	Notifications NotificationService
	Users         store.UserRepository
	Push          PushSettings
	Presence      Presence
	WebSocket     http.Handler
	JWTSecret     string
	Logger        logger.Logger
}

var (
	errNotificationsRequired = errors.New("httpapi: notification service is required")
	errUsersRequired         = errors.New("httpapi: user repository is required")
	errSecretRequired        = errors.New("httpapi: jwt secret is required")
)

type handlers struct {
	svc      NotificationService
	push     PushSettings
	presence Presence
	logger   logger.Logger
}

// NewRouter builds the chi router.
func NewRouter(deps Dependencies) (http.Handler, error) {
	if deps.Notifications == nil {
		return nil, errNotificationsRequired
	}
	if deps.Users == nil {
		return nil, errUsersRequired
	}
	if deps.JWTSecret == "" {
		return nil, errSecretRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	h := &handlers{
		svc:      deps.Notifications,
		push:     deps.Push,
		presence: deps.Presence,
		logger:   deps.Logger,
	}
	auth := authenticator{secret: []byte(deps.JWTSecret), users: deps.Users, logger: deps.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(deps.Logger))

	r.Get("/healthz", h.health)
	if deps.WebSocket != nil {
		r.Handle("/ws", deps.WebSocket)
	}

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(auth.middleware)
		r.Get("/", h.list)
		r.With(requireAdmin).Post("/", h.create)
		r.Put("/read-all", h.markAllRead)
		r.Delete("/clear-read", h.clearRead)
		if deps.Push != nil {
			r.Get("/push-settings", h.pushSettings)
			r.Put("/mute/{type}", h.mute)
			r.Delete("/mute/{type}", h.unmute)
		}
		r.Get("/{id}", h.get)
		r.Put("/{id}/read", h.markRead)
		r.Delete("/{id}", h.delete)
	})
	return r, nil
}
