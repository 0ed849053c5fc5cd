package memory

import (
	"context"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/google/uuid"
)

type DeliveryRepository struct {
	base baseMemoryRepo[domain.DeliveryRecord]
}

var _ store.DeliveryRepository = (*DeliveryRepository)(nil)

func NewDeliveryRepository() *DeliveryRepository {
	return &DeliveryRepository{
		base: newBaseMemoryRepo("delivery_record", func(d *domain.DeliveryRecord) *domain.RecordMeta { return &d.RecordMeta }),
	}
}

func (r *DeliveryRepository) Create(ctx context.Context, record *domain.DeliveryRecord) error {
	return r.base.create(ctx, record)
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryRecord, error) {
	return r.base.getByID(ctx, id)
}

func (r *DeliveryRepository) ListByNotification(ctx context.Context, notificationID int64) ([]domain.DeliveryRecord, error) {
	result, err := r.base.list(ctx, store.ListOptions{}, func(d *domain.DeliveryRecord) bool {
		return d.NotificationID == notificationID
	})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (r *DeliveryRepository) ListByUser(ctx context.Context, userID int64, opts store.ListOptions) (store.ListResult[domain.DeliveryRecord], error) {
	return r.base.list(ctx, opts, func(d *domain.DeliveryRecord) bool {
		return d.UserID == userID
	})
}
