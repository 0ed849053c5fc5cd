package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit  int
	Offset int
	Since  time.Time
	Until  time.Time
}

// ListResult bundles records and totals. Total counts every matching record,
// ignoring Limit and Offset.
type ListResult[T any] struct {
	Items []T
	Total int
}

// NotificationQuery narrows a user's notification listing.
type NotificationQuery struct {
	Limit      int
	Offset     int
	UnreadOnly bool
}

// NotificationRepository persists notifications. Every lookup and mutation is
// scoped to the owning user; foreign rows behave as missing.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetForUser(ctx context.Context, userID, id int64) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID int64, query NotificationQuery) (ListResult[domain.Notification], error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, userID, id int64) error
	DeleteRead(ctx context.Context, userID int64) (int, error)
}

// UserRepository is the read-only view over application users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListEditors(ctx context.Context) ([]domain.User, error)
}

// DeliveryRepository keeps the realtime delivery log.
type DeliveryRepository interface {
	Create(ctx context.Context, record *domain.DeliveryRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryRecord, error)
	ListByNotification(ctx context.Context, notificationID int64) ([]domain.DeliveryRecord, error)
	ListByUser(ctx context.Context, userID int64, opts ListOptions) (ListResult[domain.DeliveryRecord], error)
}

// PushPreferenceRepository stores per-user push overrides, one row per user
// and notification type.
type PushPreferenceRepository interface {
	Create(ctx context.Context, pref *domain.PushPreference) error
	Update(ctx context.Context, pref *domain.PushPreference) error
	GetByUserType(ctx context.Context, userID int64, notificationType domain.NotificationType) (*domain.PushPreference, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.PushPreference, error)
	Delete(ctx context.Context, userID int64, notificationType domain.NotificationType) error
}
