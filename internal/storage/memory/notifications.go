package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
)

// NotificationRepository keeps notifications in a map keyed by a sequential id.
type NotificationRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]domain.Notification
}

var _ store.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		records: make(map[int64]domain.Notification),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	notification.ID = r.nextID
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	record := *notification
	record.Data = notification.Data.Clone()
	r.records[record.ID] = record
	return nil
}

func (r *NotificationRepository) GetForUser(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return nil, store.ErrNotFound
	}
	record.Data = record.Data.Clone()
	return &record, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, query store.NotificationQuery) (store.ListResult[domain.Notification], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []domain.Notification
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		if query.UnreadOnly && record.IsRead {
			continue
		}
		record.Data = record.Data.Clone()
		filtered = append(filtered, record)
	}

	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := len(filtered)
	start, end := page(total, query.Limit, query.Offset)
	return store.ListResult[domain.Notification]{
		Items: filtered[start:end],
		Total: total,
	}, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, record := range r.records {
		if record.UserID == userID && !record.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return store.ErrNotFound
	}
	record.IsRead = true
	r.records[id] = record
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for id, record := range r.records {
		if record.UserID == userID && !record.IsRead {
			record.IsRead = true
			r.records[id] = record
			updated++
		}
	}
	return updated, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return store.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *NotificationRepository) DeleteRead(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, record := range r.records {
		if record.UserID == userID && record.IsRead {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}
