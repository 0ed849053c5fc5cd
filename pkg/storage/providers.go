package storage

import (
	"context"
	"database/sql"

	bunrepo "github.com/goliatone/go-realtime-notifications/internal/storage/bun"
	"github.com/goliatone/go-realtime-notifications/internal/storage/memory"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes all repositories needed by services.
type Providers struct {
	Notifications   store.NotificationRepository
	Users           store.UserRepository
	Deliveries      store.DeliveryRepository
	PushPreferences store.PushPreferenceRepository
	Transaction     store.TransactionManager
}

type Option func(*Providers)

// WithUsers replaces the user directory, for hosts that own their users table
// elsewhere.
func WithUsers(users store.UserRepository) Option {
	return func(p *Providers) {
		if users != nil {
			p.Users = users
		}
	}
}

// NewMemoryProviders returns repositories backed by in-memory maps. The given
// users seed the directory.
func NewMemoryProviders(users []domain.User, opts ...Option) Providers {
	providers := Providers{
		Notifications:   memory.NewNotificationRepository(),
		Users:           memory.NewUserRepository(users...),
		Deliveries:      memory.NewDeliveryRepository(),
		PushPreferences: memory.NewPushPreferenceRepository(),
		Transaction:     &store.NopTransactionManager{},
	}
	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

// NewBunProviders wires Bun-backed repositories. The caller owns the *bun.DB
// lifecycle.
func NewBunProviders(db *bun.DB, opts ...Option) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	persistence.RegisterModel(Models()...)

	providers := Providers{
		Notifications:   bunrepo.NewNotificationRepository(db),
		Users:           bunrepo.NewUserRepository(db),
		Deliveries:      bunrepo.NewDeliveryRepository(db),
		PushPreferences: bunrepo.NewPushPreferenceRepository(db),
		Transaction:     &bunTxManager{db: db},
	}

	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

// Models lists the bun models owned by this module.
func Models() []any {
	return []any{
		(*domain.User)(nil),
		(*domain.Notification)(nil),
		(*domain.DeliveryRecord)(nil),
		(*domain.PushPreference)(nil),
	}
}

type bunTxManager struct {
	db *bun.DB
}

func (m *bunTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(bunrepo.WithTx(ctx, tx))
	})
}
