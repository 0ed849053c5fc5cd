package usersink

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []types.ActivityRecord
}

func (s *recordingSink) Log(_ context.Context, rec types.ActivityRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func TestHookNotifyMapsFields(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	evt := activity.Event{
		Verb:       activity.VerbNotificationCreated,
		ActorID:    1,
		UserID:     42,
		ObjectType: "notification",
		ObjectID:   "7",
		Metadata: map[string]any{
			"type": "file_share",
		},
		OccurredAt: now,
	}

	hook.Notify(context.Background(), evt)

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	rec := sink.records[0]

	if rec.Verb != evt.Verb {
		t.Fatalf("verb mismatch: %s", rec.Verb)
	}
	if rec.ObjectType != evt.ObjectType || rec.ObjectID != evt.ObjectID {
		t.Fatalf("object fields not mapped")
	}
	if rec.UserID != UserUUID(42) || rec.ActorID != UserUUID(1) {
		t.Fatalf("user ids not mapped")
	}
	if rec.Channel != ChannelInApp {
		t.Fatalf("channel mismatch: %s", rec.Channel)
	}
	if rec.Data["type"] != "file_share" || rec.Data["user_id"] != int64(42) {
		t.Fatalf("data not propagated: %+v", rec.Data)
	}
	if rec.OccurredAt != now {
		t.Fatalf("occurred_at mismatch: %v", rec.OccurredAt)
	}
}

func TestHookRealtimeEvents(t *testing.T) {
	sink := &recordingSink{}
	Hook{Sink: sink}.Notify(context.Background(), activity.Event{
		Verb:         activity.VerbConnectionSuperseded,
		UserID:       42,
		ConnectionID: "abc",
	})
	rec := sink.records[0]
	if rec.Channel != ChannelRealtime || rec.Data["connection_id"] != "abc" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.ActorID != uuid.Nil {
		t.Fatalf("system events must have a nil actor")
	}
	if rec.OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be stamped")
	}
}

func TestUserUUIDIsStable(t *testing.T) {
	if UserUUID(42) != UserUUID(42) {
		t.Fatalf("expected stable mapping")
	}
	if UserUUID(42) == UserUUID(43) {
		t.Fatalf("expected distinct ids")
	}
	if UserUUID(0) != uuid.Nil {
		t.Fatalf("expected nil uuid for zero")
	}
}
