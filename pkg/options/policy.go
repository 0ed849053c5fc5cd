package options

import (
	"context"
	"errors"
	"fmt"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
)

var ErrPolicyStoreRequired = errors.New("options: push policy requires a preference repository")

// PushPolicy decides whether a notification type is pushed in realtime to a
// user. Persistence is never affected.
type PushPolicy struct {
	system map[string]any
	store  PreferenceSnapshotStore
	logger logger.Logger
}

// NewPushPolicy layers the configured system defaults under per-user
// overrides kept in repo.
func NewPushPolicy(cfg config.PushConfig, repo store.PushPreferenceRepository, lgr logger.Logger) (*PushPolicy, error) {
	if repo == nil {
		return nil, ErrPolicyStoreRequired
	}
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	system := make(map[string]any, len(domain.NotificationTypes()))
	for _, t := range domain.NotificationTypes() {
		enabled, ok := cfg.Types[string(t)]
		if !ok {
			enabled = true
		}
		system[string(t)] = enabled
	}
	return &PushPolicy{
		system: system,
		store:  PreferenceSnapshotStore{Repository: repo},
		logger: lgr,
	}, nil
}

// Allowed resolves the effective setting for notificationType and the trace
// of layers that produced it.
func (p *PushPolicy) Allowed(ctx context.Context, userID int64, notificationType domain.NotificationType) (bool, opts.Trace, error) {
	resolver, err := p.resolver(ctx, userID)
	if err != nil {
		return true, opts.Trace{}, err
	}
	allowed, trace, err := resolver.ResolveBool(string(notificationType))
	if err != nil {
		return true, trace, fmt.Errorf("options: resolve %s: %w", notificationType, err)
	}
	return allowed, trace, nil
}

// ShouldPush is Allowed without the trace. Resolution errors allow the push.
func (p *PushPolicy) ShouldPush(ctx context.Context, userID int64, notificationType domain.NotificationType) bool {
	allowed, _, err := p.Allowed(ctx, userID, notificationType)
	if err != nil {
		p.logger.Warn("push policy resolution failed",
			logger.Int64("user_id", userID),
			logger.String("type", string(notificationType)),
			logger.Err(err),
		)
		return true
	}
	return allowed
}

// Mute stops realtime pushes of notificationType to userID.
func (p *PushPolicy) Mute(ctx context.Context, userID int64, notificationType domain.NotificationType) error {
	if !notificationType.Valid() {
		return domain.ErrInvalidType
	}
	_, err := p.store.Save(ctx, userID, notificationType, false)
	return err
}

// Unmute re-enables pushes of notificationType, overriding a disabled
// system default.
func (p *PushPolicy) Unmute(ctx context.Context, userID int64, notificationType domain.NotificationType) error {
	if !notificationType.Valid() {
		return domain.ErrInvalidType
	}
	_, err := p.store.Save(ctx, userID, notificationType, true)
	return err
}

// Reset removes the user's override for notificationType.
func (p *PushPolicy) Reset(ctx context.Context, userID int64, notificationType domain.NotificationType) error {
	if !notificationType.Valid() {
		return domain.ErrInvalidType
	}
	return p.store.Reset(ctx, userID, notificationType)
}

// Effective returns the resolved setting of every notification type.
func (p *PushPolicy) Effective(ctx context.Context, userID int64) (map[domain.NotificationType]bool, error) {
	resolver, err := p.resolver(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.NotificationType]bool, len(p.system))
	for _, t := range domain.NotificationTypes() {
		allowed, _, err := resolver.ResolveBool(string(t))
		if err != nil {
			return nil, err
		}
		out[t] = allowed
	}
	return out, nil
}

func (p *PushPolicy) resolver(ctx context.Context, userID int64) (*Resolver, error) {
	snapshots := []Snapshot{{Scope: SystemScope, Data: p.system, SnapshotID: "config"}}
	user, ok, err := p.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ok {
		snapshots = append(snapshots, user)
	}
	return NewResolver(snapshots...)
}
