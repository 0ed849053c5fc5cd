package memory

import (
	"context"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
)

type PushPreferenceRepository struct {
	base baseMemoryRepo[domain.PushPreference]
}

var _ store.PushPreferenceRepository = (*PushPreferenceRepository)(nil)

func NewPushPreferenceRepository() *PushPreferenceRepository {
	return &PushPreferenceRepository{
		base: newBaseMemoryRepo("push_preference", func(p *domain.PushPreference) *domain.RecordMeta { return &p.RecordMeta }),
	}
}

func (r *PushPreferenceRepository) Create(ctx context.Context, pref *domain.PushPreference) error {
	return r.base.create(ctx, pref)
}

func (r *PushPreferenceRepository) Update(ctx context.Context, pref *domain.PushPreference) error {
	return r.base.update(ctx, pref)
}

func (r *PushPreferenceRepository) GetByUserType(ctx context.Context, userID int64, notificationType domain.NotificationType) (*domain.PushPreference, error) {
	return r.base.find(func(p *domain.PushPreference) bool {
		return p.UserID == userID && p.Type == notificationType
	})
}

func (r *PushPreferenceRepository) ListByUser(ctx context.Context, userID int64) ([]domain.PushPreference, error) {
	result, err := r.base.list(ctx, store.ListOptions{}, func(p *domain.PushPreference) bool {
		return p.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (r *PushPreferenceRepository) Delete(ctx context.Context, userID int64, notificationType domain.NotificationType) error {
	removed := r.base.remove(func(p *domain.PushPreference) bool {
		return p.UserID == userID && p.Type == notificationType
	})
	if removed == 0 {
		return store.ErrNotFound
	}
	return nil
}
