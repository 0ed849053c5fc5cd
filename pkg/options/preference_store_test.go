package options

import (
	"context"
	"testing"

	"github.com/goliatone/go-realtime-notifications/internal/storage/memory"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
)

func TestPreferenceSnapshotStoreLoad(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPushPreferenceRepository()
	store := PreferenceSnapshotStore{Repository: repo}

	if _, ok, err := store.Load(ctx, 1); err != nil || ok {
		t.Fatalf("expected no snapshot for a user without overrides, got ok=%v err=%v", ok, err)
	}

	if err := repo.Create(ctx, &domain.PushPreference{UserID: 1, Type: domain.TypeFileShare, Enabled: false}); err != nil {
		t.Fatalf("seed preference: %v", err)
	}
	snapshot, ok, err := store.Load(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("load snapshot: ok=%v err=%v", ok, err)
	}
	if snapshot.Scope.Name != "user" || snapshot.SnapshotID != "user:1" {
		t.Fatalf("unexpected snapshot metadata %+v", snapshot)
	}
	if enabled, _ := snapshot.Data["file_share"].(bool); enabled {
		t.Fatalf("expected file_share disabled in snapshot")
	}
}

func TestPreferenceSnapshotStoreSaveUpserts(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPushPreferenceRepository()
	store := PreferenceSnapshotStore{Repository: repo}

	first, err := store.Save(ctx, 2, domain.TypeGroupInvitation, false)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.Save(ctx, 2, domain.TypeGroupInvitation, true)
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected update in place, got %s and %s", first.ID, second.ID)
	}
	prefs, _ := repo.ListByUser(ctx, 2)
	if len(prefs) != 1 || !prefs[0].Enabled {
		t.Fatalf("unexpected stored preferences %+v", prefs)
	}

	if err := store.Reset(ctx, 2, domain.TypeGroupInvitation); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := store.Reset(ctx, 2, domain.TypeGroupInvitation); err != nil {
		t.Fatalf("reset without override should succeed: %v", err)
	}
}
