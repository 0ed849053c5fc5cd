package commands

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
)

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	NotifyEditorPromotion command.Commander[NotifyEditorPromotion]
	NotifyContentUpdate   command.Commander[NotifyContentUpdate]
	NotifyGroupInvitation command.Commander[NotifyGroupInvitation]
	NotifyFileShare       command.Commander[NotifyFileShare]
	MarkRead              command.Commander[MarkRead]
	MarkAllRead           command.Commander[MarkAllRead]
	Delete                command.Commander[Delete]
	ClearRead             command.Commander[ClearRead]
	SetPushMuted          command.Commander[SetPushMuted]
}

type notificationService interface {
	NotifyEditorPromotion(ctx context.Context, userID int64, promotedBy string) (*domain.Notification, error)
	NotifyContentUpdate(ctx context.Context, userIDs []int64, title, message string, data map[string]any) ([]domain.Notification, error)
	NotifyGroupInvitation(ctx context.Context, userID, groupID int64, groupName, invitedBy string) (*domain.Notification, error)
	NotifyFileShare(ctx context.Context, userID int64, fileName, sharedBy string) (*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, userID, id int64) error
	ClearRead(ctx context.Context, userID int64) (int, error)
}

type pushPolicy interface {
	Mute(ctx context.Context, userID int64, notificationType domain.NotificationType) error
	Unmute(ctx context.Context, userID int64, notificationType domain.NotificationType) error
}

// Dependencies wires services into the command catalog.
type Dependencies struct {
	Notifications notificationService
	Policy        pushPolicy
	Logger        logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Notifications == nil {
		return nil, errors.New("commands: notification service is required")
	}
	if deps.Policy == nil {
		return nil, errors.New("commands: push policy is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		NotifyEditorPromotion: editorPromotionCommand{svc: deps.Notifications},
		NotifyContentUpdate:   contentUpdateCommand{svc: deps.Notifications, logger: deps.Logger},
		NotifyGroupInvitation: groupInvitationCommand{svc: deps.Notifications},
		NotifyFileShare:       fileShareCommand{svc: deps.Notifications},
		MarkRead:              markReadCommand{svc: deps.Notifications},
		MarkAllRead:           markAllReadCommand{svc: deps.Notifications},
		Delete:                deleteCommand{svc: deps.Notifications},
		ClearRead:             clearReadCommand{svc: deps.Notifications},
		SetPushMuted:          pushMuteCommand{policy: deps.Policy},
	}, nil
}

// NotifyEditorPromotion requests an editor promotion notice.
type NotifyEditorPromotion struct {
	UserID     int64  `json:"user_id"`
	PromotedBy string `json:"promoted_by"`
}

type editorPromotionCommand struct {
	svc notificationService
}

func (c editorPromotionCommand) Execute(ctx context.Context, msg NotifyEditorPromotion) error {
	_, err := c.svc.NotifyEditorPromotion(ctx, msg.UserID, msg.PromotedBy)
	return err
}

// NotifyContentUpdate fans a content update out. Empty UserIDs targets editors.
type NotifyContentUpdate struct {
	UserIDs []int64        `json:"user_ids"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type contentUpdateCommand struct {
	svc    notificationService
	logger logger.Logger
}

func (c contentUpdateCommand) Execute(ctx context.Context, msg NotifyContentUpdate) error {
	created, err := c.svc.NotifyContentUpdate(ctx, msg.UserIDs, msg.Title, msg.Message, msg.Data)
	if err != nil {
		return err
	}
	c.logger.Debug("content update fanned out", logger.Int64("recipients", int64(len(created))))
	return nil
}

// NotifyGroupInvitation requests a group invitation notice.
type NotifyGroupInvitation struct {
	UserID    int64  `json:"user_id"`
	GroupID   int64  `json:"group_id"`
	GroupName string `json:"group_name"`
	InvitedBy string `json:"invited_by"`
}

type groupInvitationCommand struct {
	svc notificationService
}

func (c groupInvitationCommand) Execute(ctx context.Context, msg NotifyGroupInvitation) error {
	_, err := c.svc.NotifyGroupInvitation(ctx, msg.UserID, msg.GroupID, msg.GroupName, msg.InvitedBy)
	return err
}

// NotifyFileShare requests a file share notice.
type NotifyFileShare struct {
	UserID   int64  `json:"user_id"`
	FileName string `json:"file_name"`
	SharedBy string `json:"shared_by"`
}

type fileShareCommand struct {
	svc notificationService
}

func (c fileShareCommand) Execute(ctx context.Context, msg NotifyFileShare) error {
	_, err := c.svc.NotifyFileShare(ctx, msg.UserID, msg.FileName, msg.SharedBy)
	return err
}

// MarkRead flags one notification of UserID as read.
type MarkRead struct {
	UserID int64 `json:"user_id"`
	ID     int64 `json:"id"`
}

type markReadCommand struct {
	svc notificationService
}

func (c markReadCommand) Execute(ctx context.Context, msg MarkRead) error {
	return c.svc.MarkRead(ctx, msg.UserID, msg.ID)
}

// MarkAllRead flags every notification of UserID as read.
type MarkAllRead struct {
	UserID int64 `json:"user_id"`
}

type markAllReadCommand struct {
	svc notificationService
}

func (c markAllReadCommand) Execute(ctx context.Context, msg MarkAllRead) error {
	_, err := c.svc.MarkAllRead(ctx, msg.UserID)
	return err
}

// Delete removes one notification of UserID.
type Delete struct {
	UserID int64 `json:"user_id"`
	ID     int64 `json:"id"`
}

type deleteCommand struct {
	svc notificationService
}

func (c deleteCommand) Execute(ctx context.Context, msg Delete) error {
	return c.svc.Delete(ctx, msg.UserID, msg.ID)
}

// ClearRead removes the read notifications of UserID.
type ClearRead struct {
	UserID int64 `json:"user_id"`
}

type clearReadCommand struct {
	svc notificationService
}

func (c clearReadCommand) Execute(ctx context.Context, msg ClearRead) error {
	_, err := c.svc.ClearRead(ctx, msg.UserID)
	return err
}

// SetPushMuted toggles realtime pushes of one type for a user.
type SetPushMuted struct {
	UserID int64  `json:"user_id"`
	Type   string `json:"type"`
	Muted  bool   `json:"muted"`
}

type pushMuteCommand struct {
	policy pushPolicy
}

func (c pushMuteCommand) Execute(ctx context.Context, msg SetPushMuted) error {
	nt, err := domain.ParseNotificationType(msg.Type)
	if err != nil {
		return err
	}
	if msg.UserID <= 0 {
		return fmt.Errorf("commands: invalid user id %d", msg.UserID)
	}
	if msg.Muted {
		return c.policy.Mute(ctx, msg.UserID, nt)
	}
	return c.policy.Unmute(ctx, msg.UserID, nt)
}
