package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
)

type stubNotifications struct {
	calls []string
}

func (s *stubNotifications) NotifyEditorPromotion(context.Context, int64, string) (*domain.Notification, error) {
	s.calls = append(s.calls, "promotion")
	return &domain.Notification{}, nil
}

func (s *stubNotifications) NotifyContentUpdate(_ context.Context, ids []int64, _, _ string, _ map[string]any) ([]domain.Notification, error) {
	s.calls = append(s.calls, "content")
	return make([]domain.Notification, len(ids)), nil
}

func (s *stubNotifications) NotifyGroupInvitation(context.Context, int64, int64, string, string) (*domain.Notification, error) {
	s.calls = append(s.calls, "invitation")
	return &domain.Notification{}, nil
}

func (s *stubNotifications) NotifyFileShare(context.Context, int64, string, string) (*domain.Notification, error) {
	s.calls = append(s.calls, "file")
	return &domain.Notification{}, nil
}

func (s *stubNotifications) MarkRead(_ context.Context, _, id int64) error {
	s.calls = append(s.calls, "read")
	if id == 404 {
		return errNotFound
	}
	return nil
}

func (s *stubNotifications) MarkAllRead(context.Context, int64) (int, error) {
	s.calls = append(s.calls, "read_all")
	return 0, nil
}

func (s *stubNotifications) Delete(context.Context, int64, int64) error {
	s.calls = append(s.calls, "delete")
	return nil
}

func (s *stubNotifications) ClearRead(context.Context, int64) (int, error) {
	s.calls = append(s.calls, "clear")
	return 0, nil
}

type stubPolicy struct {
	muted map[domain.NotificationType]bool
}

func (p *stubPolicy) Mute(_ context.Context, _ int64, nt domain.NotificationType) error {
	p.muted[nt] = true
	return nil
}

func (p *stubPolicy) Unmute(_ context.Context, _ int64, nt domain.NotificationType) error {
	p.muted[nt] = false
	return nil
}

var errNotFound = errors.New("not found")

func TestCatalogCommands(t *testing.T) {
	ctx := context.Background()
	svc := &stubNotifications{}
	policy := &stubPolicy{muted: map[domain.NotificationType]bool{}}
	cat, err := NewCatalog(Dependencies{Notifications: svc, Policy: policy})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	if err := cat.NotifyEditorPromotion.Execute(ctx, NotifyEditorPromotion{UserID: 1, PromotedBy: "ana"}); err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if err := cat.NotifyContentUpdate.Execute(ctx, NotifyContentUpdate{UserIDs: []int64{1, 2}, Title: "t", Message: "m"}); err != nil {
		t.Fatalf("content update: %v", err)
	}
	if err := cat.NotifyGroupInvitation.Execute(ctx, NotifyGroupInvitation{UserID: 1, GroupID: 2, GroupName: "g"}); err != nil {
		t.Fatalf("invitation: %v", err)
	}
	if err := cat.NotifyFileShare.Execute(ctx, NotifyFileShare{UserID: 1, FileName: "f", SharedBy: "s"}); err != nil {
		t.Fatalf("file share: %v", err)
	}
	if err := cat.MarkRead.Execute(ctx, MarkRead{UserID: 1, ID: 3}); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := cat.MarkRead.Execute(ctx, MarkRead{UserID: 1, ID: 404}); !errors.Is(err, errNotFound) {
		t.Fatalf("expected service error to surface, got %v", err)
	}
	if err := cat.MarkAllRead.Execute(ctx, MarkAllRead{UserID: 1}); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if err := cat.Delete.Execute(ctx, Delete{UserID: 1, ID: 3}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := cat.ClearRead.Execute(ctx, ClearRead{UserID: 1}); err != nil {
		t.Fatalf("clear read: %v", err)
	}
	want := []string{"promotion", "content", "invitation", "file", "read", "read", "read_all", "delete", "clear"}
	if len(svc.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, svc.calls)
	}
	for i := range want {
		if svc.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, svc.calls)
		}
	}
}

func TestSetPushMuted(t *testing.T) {
	ctx := context.Background()
	policy := &stubPolicy{muted: map[domain.NotificationType]bool{}}
	cat, err := NewCatalog(Dependencies{Notifications: &stubNotifications{}, Policy: policy})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if err := cat.SetPushMuted.Execute(ctx, SetPushMuted{UserID: 1, Type: "file_share", Muted: true}); err != nil {
		t.Fatalf("mute: %v", err)
	}
	if !policy.muted[domain.TypeFileShare] {
		t.Fatalf("expected file_share muted")
	}
	if err := cat.SetPushMuted.Execute(ctx, SetPushMuted{UserID: 1, Type: "file_share"}); err != nil {
		t.Fatalf("unmute: %v", err)
	}
	if policy.muted[domain.TypeFileShare] {
		t.Fatalf("expected file_share unmuted")
	}
	if err := cat.SetPushMuted.Execute(ctx, SetPushMuted{UserID: 1, Type: "birthday", Muted: true}); !errors.Is(err, domain.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestNewCatalogRequiresDependencies(t *testing.T) {
	if _, err := NewCatalog(Dependencies{}); err == nil {
		t.Fatalf("expected error without notification service")
	}
	if _, err := NewCatalog(Dependencies{Notifications: &stubNotifications{}}); err == nil {
		t.Fatalf("expected error without push policy")
	}
}
