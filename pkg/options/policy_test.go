package options

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-realtime-notifications/internal/storage/memory"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
)

func newPolicy(t *testing.T, types map[string]bool) *PushPolicy {
	t.Helper()
	policy, err := NewPushPolicy(config.PushConfig{Types: types}, memory.NewPushPreferenceRepository(), nil)
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	return policy
}

func TestPushPolicyDefaultsAllowEverything(t *testing.T) {
	policy := newPolicy(t, nil)
	for _, nt := range domain.NotificationTypes() {
		if !policy.ShouldPush(context.Background(), 1, nt) {
			t.Fatalf("expected %s to be pushed by default", nt)
		}
	}
}

func TestPushPolicyMuteAffectsOnlyThatUserAndType(t *testing.T) {
	policy := newPolicy(t, nil)
	ctx := context.Background()

	if err := policy.Mute(ctx, 1, domain.TypeContentUpdate); err != nil {
		t.Fatalf("mute: %v", err)
	}
	allowed, trace, err := policy.Allowed(ctx, 1, domain.TypeContentUpdate)
	if err != nil {
		t.Fatalf("allowed: %v", err)
	}
	if allowed {
		t.Fatalf("expected muted type to be blocked")
	}
	if len(trace.Layers) == 0 {
		t.Fatalf("expected a populated trace")
	}
	if !policy.ShouldPush(ctx, 1, domain.TypeFileShare) {
		t.Fatalf("other types must stay enabled")
	}
	if !policy.ShouldPush(ctx, 2, domain.TypeContentUpdate) {
		t.Fatalf("other users must stay enabled")
	}

	if err := policy.Reset(ctx, 1, domain.TypeContentUpdate); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !policy.ShouldPush(ctx, 1, domain.TypeContentUpdate) {
		t.Fatalf("expected reset to restore the default")
	}
}

func TestPushPolicyUnmuteOverridesDisabledSystemDefault(t *testing.T) {
	policy := newPolicy(t, map[string]bool{"content_update": false})
	ctx := context.Background()

	if policy.ShouldPush(ctx, 1, domain.TypeContentUpdate) {
		t.Fatalf("expected system default to disable content updates")
	}
	if err := policy.Unmute(ctx, 1, domain.TypeContentUpdate); err != nil {
		t.Fatalf("unmute: %v", err)
	}
	if !policy.ShouldPush(ctx, 1, domain.TypeContentUpdate) {
		t.Fatalf("expected user override to enable content updates")
	}

	effective, err := policy.Effective(ctx, 2)
	if err != nil {
		t.Fatalf("effective: %v", err)
	}
	if effective[domain.TypeContentUpdate] || !effective[domain.TypeFileShare] {
		t.Fatalf("unexpected effective settings %+v", effective)
	}
}

func TestPushPolicyRejectsUnknownTypes(t *testing.T) {
	policy := newPolicy(t, nil)
	if err := policy.Mute(context.Background(), 1, domain.NotificationType("sms")); !errors.Is(err, domain.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, err := NewPushPolicy(config.PushConfig{}, nil, nil); !errors.Is(err, ErrPolicyStoreRequired) {
		t.Fatalf("expected ErrPolicyStoreRequired, got %v", err)
	}
}
