package bunrepo

import (
	"context"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type DeliveryRepository struct {
	base baseRepository[domain.DeliveryRecord]
}

var _ store.DeliveryRepository = (*DeliveryRepository)(nil)

func NewDeliveryRepository(db *bun.DB) *DeliveryRepository {
	meta := func(d *domain.DeliveryRecord) *domain.RecordMeta { return &d.RecordMeta }
	handlers := uuidHandlers(func() *domain.DeliveryRecord { return &domain.DeliveryRecord{} }, meta)
	return &DeliveryRepository{
		base: newBaseRepository[domain.DeliveryRecord](db, handlers, meta),
	}
}

func (r *DeliveryRepository) Create(ctx context.Context, record *domain.DeliveryRecord) error {
	return r.base.create(ctx, record)
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryRecord, error) {
	return r.base.getByID(ctx, id)
}

func (r *DeliveryRepository) ListByNotification(ctx context.Context, notificationID int64) ([]domain.DeliveryRecord, error) {
	result, err := r.base.list(ctx,
		withColumn("notification_id", notificationID),
		withListOptions(store.ListOptions{}),
	)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (r *DeliveryRepository) ListByUser(ctx context.Context, userID int64, opts store.ListOptions) (store.ListResult[domain.DeliveryRecord], error) {
	return r.base.list(ctx, withColumn("user_id", userID), withListOptions(opts))
}
