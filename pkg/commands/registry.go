package commands

import (
	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-realtime-notifications/internal/commands"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/notifications"
	"github.com/goliatone/go-realtime-notifications/pkg/options"
)

// Re-export request types so consumers need not import internal packages.
type (
	NotifyEditorPromotion = internalcommands.NotifyEditorPromotion
	NotifyContentUpdate   = internalcommands.NotifyContentUpdate
	NotifyGroupInvitation = internalcommands.NotifyGroupInvitation
	NotifyFileShare       = internalcommands.NotifyFileShare
	MarkRead              = internalcommands.MarkRead
	MarkAllRead           = internalcommands.MarkAllRead
	Delete                = internalcommands.Delete
	ClearRead             = internalcommands.ClearRead
	SetPushMuted          = internalcommands.SetPushMuted
)

// Registry exposes go-command compatible handlers backed by the module services.
type Registry struct {
	Catalog               *internalcommands.Catalog
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

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Notifications *notifications.Service
	Policy        *options.PushPolicy
	Logger        logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	internalDeps := internalcommands.Dependencies{Logger: deps.Logger}
	if deps.Notifications != nil {
		internalDeps.Notifications = deps.Notifications
	}
	if deps.Policy != nil {
		internalDeps.Policy = deps.Policy
	}
	catalog, err := internalcommands.NewCatalog(internalDeps)
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:               catalog,
		NotifyEditorPromotion: catalog.NotifyEditorPromotion,
		NotifyContentUpdate:   catalog.NotifyContentUpdate,
		NotifyGroupInvitation: catalog.NotifyGroupInvitation,
		NotifyFileShare:       catalog.NotifyFileShare,
		MarkRead:              catalog.MarkRead,
		MarkAllRead:           catalog.MarkAllRead,
		Delete:                catalog.Delete,
		ClearRead:             catalog.ClearRead,
		SetPushMuted:          catalog.SetPushMuted,
	}, nil
}

// Commanders returns every handler so callers can register them with go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.NotifyEditorPromotion,
		r.NotifyContentUpdate,
		r.NotifyGroupInvitation,
		r.NotifyFileShare,
		r.MarkRead,
		r.MarkAllRead,
		r.Delete,
		r.ClearRead,
		r.SetPushMuted,
	}
}
