package bunrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	sqldb, err := sql.Open(sqliteshim.DriverName(), dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	models := []any{
		(*domain.User)(nil),
		(*domain.Notification)(nil),
		(*domain.DeliveryRecord)(nil),
		(*domain.PushPreference)(nil),
	}
	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		if err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func insertNotification(t *testing.T, repo *NotificationRepository, userID int64, createdAt time.Time, read bool) *domain.Notification {
	t.Helper()
	n := &domain.Notification{
		UserID:    userID,
		Type:      domain.TypeGroupInvitation,
		Title:     "Convite para Grupo",
		Message:   `Você foi convidado para o grupo "Design"`,
		Data:      domain.JSONMap{"group_id": float64(3), "group_name": "Design", "invited_by": "rita"},
		IsRead:    read,
		CreatedAt: createdAt,
	}
	if err := repo.Create(context.Background(), n); err != nil {
		t.Fatalf("create notification: %v", err)
	}
	return n
}

func TestNotificationRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := insertNotification(t, repo, 1, base, false)
	second := insertNotification(t, repo, 1, base.Add(time.Minute), true)
	insertNotification(t, repo, 2, base, false)

	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("expected autoincrement ids, got %d and %d", first.ID, second.ID)
	}

	got, err := repo.GetForUser(ctx, 1, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Data["group_name"] != "Design" || got.Type != domain.TypeGroupInvitation {
		t.Fatalf("unexpected notification %+v", got)
	}
	if _, err := repo.GetForUser(ctx, 2, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}

	list, err := repo.ListByUser(ctx, 1, store.NotificationQuery{Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 2 || list.Items[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", list.Items)
	}

	unread, err := repo.ListByUser(ctx, 1, store.NotificationQuery{UnreadOnly: true})
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if unread.Total != 1 || unread.Items[0].ID != first.ID {
		t.Fatalf("unexpected unread listing %+v", unread.Items)
	}
}

func TestNotificationRepositoryMutationsBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	a := insertNotification(t, repo, 1, time.Time{}, false)
	insertNotification(t, repo, 1, time.Time{}, false)
	insertNotification(t, repo, 2, time.Time{}, false)

	if err := repo.MarkRead(ctx, 2, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found marking a foreign row, got %v", err)
	}
	if err := repo.MarkRead(ctx, 1, a.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	count, err := repo.CountUnread(ctx, 1)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 unread, got %d (%v)", count, err)
	}
	updated, err := repo.MarkAllRead(ctx, 1)
	if err != nil || updated != 1 {
		t.Fatalf("expected 1 updated, got %d (%v)", updated, err)
	}
	deleted, err := repo.DeleteRead(ctx, 1)
	if err != nil || deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d (%v)", deleted, err)
	}
	if err := repo.Delete(ctx, 1, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found deleting a removed row, got %v", err)
	}
	remaining, _ := repo.CountUnread(ctx, 2)
	if remaining != 1 {
		t.Fatalf("expected user 2 untouched, got %d", remaining)
	}
}

func TestNotificationRepositoryJoinsTransaction(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	rollback := errors.New("rollback")
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		insertNotificationCtx(t, WithTx(ctx, tx), repo)
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("expected rollback error, got %v", err)
	}
	count, err := repo.CountUnread(ctx, 1)
	if err != nil || count != 0 {
		t.Fatalf("expected rolled back insert, got %d (%v)", count, err)
	}
}

func insertNotificationCtx(t *testing.T, ctx context.Context, repo *NotificationRepository) {
	t.Helper()
	n := &domain.Notification{UserID: 1, Type: domain.TypeContentUpdate, Title: "t", Message: "m"}
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("create in tx: %v", err)
	}
}

func TestUserRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	users := []domain.User{
		{Username: "reader", Email: "reader@example.com"},
		{Username: "editor", Email: "editor@example.com", IsEditor: true},
		{Username: "admin", Email: "admin@example.com", IsAdmin: true},
	}
	if _, err := db.NewInsert().Model(&users).Exec(ctx); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	repo := NewUserRepository(db)

	editors, err := repo.ListEditors(ctx)
	if err != nil {
		t.Fatalf("list editors: %v", err)
	}
	if len(editors) != 2 || editors[0].Username != "editor" || editors[1].Username != "admin" {
		t.Fatalf("unexpected editors %+v", editors)
	}
	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeliveryRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()

	record := &domain.DeliveryRecord{
		NotificationID: 10,
		UserID:         42,
		ConnectionID:   "A",
		Event:          "notification",
		Status:         domain.DeliveryStatusDelivered,
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ConnectionID != "A" || got.Status != domain.DeliveryStatusDelivered {
		t.Fatalf("unexpected record %+v", got)
	}
	byNotification, err := repo.ListByNotification(ctx, 10)
	if err != nil || len(byNotification) != 1 {
		t.Fatalf("expected 1 record, got %d (%v)", len(byNotification), err)
	}
	byUser, err := repo.ListByUser(ctx, 42, store.ListOptions{})
	if err != nil || byUser.Total != 1 {
		t.Fatalf("expected 1 record for user, got %d (%v)", byUser.Total, err)
	}
}

func TestPushPreferenceRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPushPreferenceRepository(db)
	ctx := context.Background()

	pref := &domain.PushPreference{UserID: 4, Type: domain.TypeFileShare, Enabled: false}
	if err := repo.Create(ctx, pref); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetByUserType(ctx, 4, domain.TypeFileShare)
	if err != nil || got.Enabled {
		t.Fatalf("unexpected preference %+v (%v)", got, err)
	}
	if _, err := repo.GetByUserType(ctx, 4, domain.TypeGroupInvitation); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, 4, domain.TypeFileShare); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := repo.ListByUser(ctx, 4)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no preferences, got %d (%v)", len(list), err)
	}
}
