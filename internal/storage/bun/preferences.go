package bunrepo

import (
	"context"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/uptrace/bun"
)

type PushPreferenceRepository struct {
	base baseRepository[domain.PushPreference]
}

var _ store.PushPreferenceRepository = (*PushPreferenceRepository)(nil)

func NewPushPreferenceRepository(db *bun.DB) *PushPreferenceRepository {
	meta := func(p *domain.PushPreference) *domain.RecordMeta { return &p.RecordMeta }
	handlers := uuidHandlers(func() *domain.PushPreference { return &domain.PushPreference{} }, meta)
	return &PushPreferenceRepository{
		base: newBaseRepository[domain.PushPreference](db, handlers, meta),
	}
}

func (r *PushPreferenceRepository) Create(ctx context.Context, pref *domain.PushPreference) error {
	return r.base.create(ctx, pref)
}

func (r *PushPreferenceRepository) Update(ctx context.Context, pref *domain.PushPreference) error {
	return r.base.update(ctx, pref)
}

func (r *PushPreferenceRepository) GetByUserType(ctx context.Context, userID int64, notificationType domain.NotificationType) (*domain.PushPreference, error) {
	return r.base.get(ctx,
		withColumn("user_id", userID),
		withColumn("type", string(notificationType)),
	)
}

func (r *PushPreferenceRepository) ListByUser(ctx context.Context, userID int64) ([]domain.PushPreference, error) {
	result, err := r.base.list(ctx, withColumn("user_id", userID), withListOptions(store.ListOptions{}))
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (r *PushPreferenceRepository) Delete(ctx context.Context, userID int64, notificationType domain.NotificationType) error {
	res, err := conn(ctx, r.base.db).
		NewDelete().
		Model((*domain.PushPreference)(nil)).
		Where("user_id = ?", userID).
		Where("type = ?", string(notificationType)).
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
