package bunrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/uptrace/bun"
)

// NotificationRepository stores notifications with bun directly. The table is
// keyed by an autoincrement integer, which the uuid based generic repository
// does not model.
type NotificationRepository struct {
	db *bun.DB
}

var _ store.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(db *bun.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	_, err := conn(ctx, r.db).
		NewInsert().
		Model(notification).
		Returning("id").
		Exec(ctx)
	return err
}

func (r *NotificationRepository) GetForUser(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	record := new(domain.Notification)
	err := conn(ctx, r.db).
		NewSelect().
		Model(record).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return record, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, query store.NotificationQuery) (store.ListResult[domain.Notification], error) {
	items := make([]domain.Notification, 0)
	q := conn(ctx, r.db).
		NewSelect().
		Model(&items).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC, id DESC")
	if query.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}
	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return store.ListResult[domain.Notification]{}, err
	}
	return store.ListResult[domain.Notification]{Items: items, Total: total}, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	return conn(ctx, r.db).
		NewSelect().
		Model((*domain.Notification)(nil)).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(ctx)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	res, err := conn(ctx, r.db).
		NewUpdate().
		Model((*domain.Notification)(nil)).
		Set("is_read = ?", true).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	res, err := conn(ctx, r.db).
		NewUpdate().
		Model((*domain.Notification)(nil)).
		Set("is_read = ?", true).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return affected(res), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := conn(ctx, r.db).
		NewDelete().
		Model((*domain.Notification)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *NotificationRepository) DeleteRead(ctx context.Context, userID int64) (int, error) {
	res, err := conn(ctx, r.db).
		NewDelete().
		Model((*domain.Notification)(nil)).
		Where("user_id = ?", userID).
		Where("is_read = ?", true).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return affected(res), nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func affected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}

func requireAffected(res sql.Result) error {
	if affected(res) == 0 {
		return store.ErrNotFound
	}
	return nil
}
