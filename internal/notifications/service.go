package notifications

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-realtime-notifications/pkg/adapters/email"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/goliatone/go-realtime-notifications/pkg/templates"
)

// Notifier pushes persisted notifications to connected users.
type Notifier interface {
	NotifyUser(ctx context.Context, userID int64, payload any)
	Online(userID int64) bool
}

// Composer produces localized notification copy.
type Composer interface {
	Compose(ctx context.Context, notificationType domain.NotificationType, locale string, data map[string]any) (templates.Content, error)
	Render(ctx context.Context, req templates.RenderRequest) (templates.RenderResult, error)
}

// PushPolicy gates realtime pushes per user and type.
type PushPolicy interface {
	ShouldPush(ctx context.Context, userID int64, notificationType domain.NotificationType) bool
}

// Dependencies wires repositories, realtime and fallbacks into the service.
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

// Service persists notifications, pushes them in realtime and manages the
// per-user store.
type Service struct {
	repo        store.NotificationRepository
	users       store.UserRepository
	tx          store.TransactionManager
	realtime    Notifier
	broadcaster broadcaster.Broadcaster
	activity    activity.Hooks
	composer    Composer
	policy      PushPolicy
	email       email.Sender
	logger      logger.Logger
	validator   *validator.Validate

	locale       string
	defaultLimit int
	maxLimit     int
	emailEnabled bool
}

// Query narrows a listing.
type Query struct {
	Limit      int
	Offset     int
	UnreadOnly bool
}

// ListResult is a page of notifications plus the user's unread total.
type ListResult struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int                   `json:"total"`
	UnreadCount   int                   `json:"unread_count"`
}

// CreateInput is the admin create request.
type CreateInput struct {
	ActorID int64                   `json:"-"`
	UserID  int64                   `json:"user_id" validate:"gt=0"`
	Type    domain.NotificationType `json:"type" validate:"required,notification_type"`
	Title   string                  `json:"title" validate:"required,max=255"`
	Message string                  `json:"message" validate:"required"`
	Data    domain.JSONMap          `json:"data"`
}

// NewService validates dependencies and applies defaults.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Notifications == nil {
		return nil, errRepositoryRequired
	}
	if deps.Users == nil {
		return nil, errUsersRequired
	}
	if deps.Composer == nil {
		return nil, errComposerRequired
	}
	if deps.Transaction == nil {
		deps.Transaction = &store.NopTransactionManager{}
	}
	if deps.Broadcaster == nil {
		deps.Broadcaster = &broadcaster.Nop{}
	}
	if deps.Email == nil {
		deps.Email = email.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	defaults := config.Defaults()
	locale := strings.TrimSpace(deps.Config.Localization.DefaultLocale)
	if locale == "" {
		locale = defaults.Localization.DefaultLocale
	}
	limits := deps.Config.Notifications
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = defaults.Notifications.DefaultLimit
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = defaults.Notifications.MaxLimit
	}
	return &Service{
		repo:         deps.Notifications,
		users:        deps.Users,
		tx:           deps.Transaction,
		realtime:     deps.Realtime,
		broadcaster:  deps.Broadcaster,
		activity:     deps.Activity,
		composer:     deps.Composer,
		policy:       deps.Policy,
		email:        deps.Email,
		logger:       deps.Logger,
		validator:    newValidator(),
		locale:       locale,
		defaultLimit: limits.DefaultLimit,
		maxLimit:     limits.MaxLimit,
		emailEnabled: deps.Config.Email.Enabled,
	}, nil
}

// List returns the user's notifications newest first.
func (s *Service) List(ctx context.Context, userID int64, query Query) (ListResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	page, err := s.repo.ListByUser(ctx, userID, store.NotificationQuery{
		Limit:      limit,
		Offset:     offset,
		UnreadOnly: query.UnreadOnly,
	})
	if err != nil {
		return ListResult{}, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}
	items := page.Items
	if items == nil {
		items = []domain.Notification{}
	}
	return ListResult{Notifications: items, Total: page.Total, UnreadCount: unread}, nil
}

// Get returns one of the user's notifications.
func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	return s.repo.GetForUser(ctx, userID, id)
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Create validates and persists an arbitrary notification, then pushes it.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Notification, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Message = strings.TrimSpace(input.Message)
	if err := s.validate(input); err != nil {
		return nil, err
	}
	payload, err := domain.DecodePayload(input.Type, input.Data)
	if err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	if err := s.requireUser(ctx, input.UserID); err != nil {
		return nil, err
	}
	n, err := domain.NewNotification(input.UserID, input.Title, input.Message, payload)
	if err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	// the typed payload only validates; data is stored as sent
	n.Data = input.Data.Clone()
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.created(ctx, input.ActorID, n)
	s.deliver(ctx, n)
	return n, nil
}

// MarkRead flags one notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	s.changed(ctx, broadcaster.TopicRead, activity.VerbNotificationRead, userID, id, nil)
	return nil
}

// MarkAllRead flags every unread notification of the user and returns how
// many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.changed(ctx, broadcaster.TopicReadAll, activity.VerbNotificationReadAll, userID, 0, map[string]any{"updated_count": updated})
	return updated, nil
}

// Delete removes one notification.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.changed(ctx, broadcaster.TopicDeleted, activity.VerbNotificationDeleted, userID, id, nil)
	return nil
}

// ClearRead removes every read notification and returns how many went.
func (s *Service) ClearRead(ctx context.Context, userID int64) (int, error) {
	deleted, err := s.repo.DeleteRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.changed(ctx, broadcaster.TopicCleared, activity.VerbNotificationCleared, userID, 0, map[string]any{"deleted_count": deleted})
	return deleted, nil
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	_, err := s.user(ctx, userID)
	return err
}

func (s *Service) user(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *Service) created(ctx context.Context, actorID int64, n *domain.Notification) {
	s.emit(ctx, broadcaster.TopicCreated, *n)
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbNotificationCreated,
		ActorID:    actorID,
		UserID:     n.UserID,
		ObjectType: "notification",
		ObjectID:   strconv.FormatInt(n.ID, 10),
		Metadata: map[string]any{
			"type":  string(n.Type),
			"title": n.Title,
		},
	})
}

func (s *Service) changed(ctx context.Context, topic, verb string, userID, id int64, meta map[string]any) {
	payload := map[string]any{"user_id": userID}
	objectID := ""
	if id > 0 {
		payload["id"] = id
		objectID = strconv.FormatInt(id, 10)
	}
	for k, v := range meta {
		payload[k] = v
	}
	s.emit(ctx, topic, payload)
	s.activity.Notify(ctx, activity.Event{
		Verb:       verb,
		ActorID:    userID,
		UserID:     userID,
		ObjectType: "notification",
		ObjectID:   objectID,
		Metadata:   activity.CloneMetadata(meta),
	})
}

func (s *Service) emit(ctx context.Context, topic string, payload any) {
	if err := s.broadcaster.Broadcast(ctx, broadcaster.Event{Topic: topic, Payload: payload}); err != nil {
		s.logger.Warn("notification broadcast failed", logger.String("topic", topic), logger.Err(err))
	}
}
