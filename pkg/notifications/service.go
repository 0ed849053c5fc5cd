package notifications

import (
	"context"
	"errors"

	"github.com/goliatone/go-realtime-notifications/internal/notifications"
	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-realtime-notifications/pkg/adapters/email"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
)

// Re-export commonly used types so callers don't depend on the internal package.
type (
	Query       = notifications.Query
	ListResult  = notifications.ListResult
	CreateInput = notifications.CreateInput
	Notifier    = notifications.Notifier
	Composer    = notifications.Composer
	PushPolicy  = notifications.PushPolicy
)

var (
	ErrNotFound     = notifications.ErrNotFound
	ErrUserNotFound = notifications.ErrUserNotFound
	ErrInvalidInput = notifications.ErrInvalidInput
	ErrNoRecipients = notifications.ErrNoRecipients

	// DeliveryLog builds the realtime observer that persists delivery outcomes.
	DeliveryLog = notifications.DeliveryLog
)

var errServiceNotInitialised = errors.New("notifications: service not initialised")

// Dependencies wires repositories, realtime and fallbacks.
type Dependencies struct {
	Notifications store.NotificationRepository
	Users         store.UserRepository
	Transaction   store.TransactionManager
	Realtime      Notifier
	Broadcaster   broadcaster.Broadcaster
	Activity      activity.Hooks
	Composer      Composer
	Policy        PushPolicy
	Email         email.Sender
	Logger        logger.Logger
	Config        config.Config
}

// Service exposes the notification store and producer helpers.
type Service struct {
	internal *notifications.Service
}

// New constructs the façade.
func New(deps Dependencies) (*Service, error) {
	internalSvc, err := notifications.NewService(notifications.Dependencies{
		Notifications: deps.Notifications,
		Users:         deps.Users,
		Transaction:   deps.Transaction,
		Realtime:      deps.Realtime,
		Broadcaster:   deps.Broadcaster,
		Activity:      deps.Activity,
		Composer:      deps.Composer,
		Policy:        deps.Policy,
		Email:         deps.Email,
		Logger:        deps.Logger,
		Config:        deps.Config,
	})
	if err != nil {
		return nil, err
	}
	return &Service{internal: internalSvc}, nil
}

// List returns a page of the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID int64, query Query) (ListResult, error) {
	if s == nil || s.internal == nil {
		return ListResult{}, errServiceNotInitialised
	}
	return s.internal.List(ctx, userID, query)
}

// Get returns one notification owned by the user.
func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	if s == nil || s.internal == nil {
		return nil, errServiceNotInitialised
	}
	return s.internal.Get(ctx, userID, id)
}

// UnreadCount returns how many notifications the user has not read.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	if s == nil || s.internal == nil {
		return 0, errServiceNotInitialised
	}
	return s.internal.UnreadCount(ctx, userID)
}

// Create stores an arbitrary notification and pushes it.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Notification, error) {
	if s == nil || s.internal == nil {
		return nil, errServiceNotInitialised
	}
	return s.internal.Create(ctx, input)
}

func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	if s == nil || s.internal == nil {
		return errServiceNotInitialised
	}
	return s.internal.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	if s == nil || s.internal == nil {
		return 0, errServiceNotInitialised
	}
	return s.internal.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if s == nil || s.internal == nil {
		return errServiceNotInitialised
	}
	return s.internal.Delete(ctx, userID, id)
}

// ClearRead deletes every read notification of the user.
func (s *Service) ClearRead(ctx context.Context, userID int64) (int, error) {
	if s == nil || s.internal == nil {
		return 0, errServiceNotInitialised
	}
	return s.internal.ClearRead(ctx, userID)
}

// NotifyEditorPromotion stores and pushes an editor promotion notice.
func (s *Service) NotifyEditorPromotion(ctx context.Context, userID int64, promotedBy string) (*domain.Notification, error) {
	if s == nil || s.internal == nil {
		return nil, errServiceNotInitialised
	}
	return s.internal.NotifyEditorPromotion(ctx, userID, promotedBy)
}

// NotifyContentUpdate fans a content update out to userIDs, or to every
// editor when userIDs is empty.
func (s *Service) NotifyContentUpdate(ctx context.Context, userIDs []int64, title, message string, data map[string]any) ([]domain.Notification, error) {
	if s == nil || s.internal == nil {
		return nil, errServiceNotInitialised
	}
	return s.internal.NotifyContentUpdate(ctx, userIDs, title, message, data)
}

// NotifyGroupInvitation stores and pushes a group invitation.
func (s *Service) NotifyGroupInvitation(ctx context.Context, userID, groupID int64, groupName, invitedBy string) (*domain.Notification, error) {
	if s == nil || s.internal == nil {
		return nil, errServiceNotInitialised
	}
	return s.internal.NotifyGroupInvitation(ctx, userID, groupID, groupName, invitedBy)
}

// NotifyFileShare stores and pushes a file share notice.
func (s *Service) NotifyFileShare(ctx context.Context, userID int64, fileName, sharedBy string) (*domain.Notification, error) {
	if s == nil || s.internal == nil {
		return nil, errServiceNotInitialised
	}
	return s.internal.NotifyFileShare(ctx, userID, fileName, sharedBy)
}
