package usersink

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Namespace derives stable go-users UUIDs from numeric application user ids.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:realtime-notifications:user"))

// ChannelRealtime tags records produced by the realtime hub.
const ChannelRealtime = "realtime"

// ChannelInApp tags records produced by the notification store.
const ChannelInApp = "in_app"

// Hook adapts activity events into go-users ActivitySink records.
type Hook struct {
	Sink types.ActivitySink
}

// Notify maps the activity event into a types.ActivityRecord and forwards it.
func (h Hook) Notify(ctx context.Context, evt activity.Event) {
	if h.Sink == nil {
		return
	}
	record := types.ActivityRecord{
		ID:         uuid.New(),
		UserID:     UserUUID(evt.UserID),
		ActorID:    UserUUID(evt.ActorID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    channelFor(evt.Verb),
		Data:       buildData(evt),
		OccurredAt: evt.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC()
	}
	_ = h.Sink.Log(ctx, record)
}

// UserUUID maps a numeric user id to its go-users UUID. Zero maps to uuid.Nil.
func UserUUID(id int64) uuid.UUID {
	if id == 0 {
		return uuid.Nil
	}
	return uuid.NewSHA1(Namespace, []byte(strconv.FormatInt(id, 10)))
}

func channelFor(verb string) string {
	if strings.HasPrefix(verb, "realtime.") {
		return ChannelRealtime
	}
	return ChannelInApp
}

// buildData keeps the numeric ids next to the derived UUIDs so the
// application can join records back to its own users.
func buildData(evt activity.Event) map[string]any {
	data := activity.CloneMetadata(evt.Metadata)
	if data == nil {
		data = make(map[string]any)
	}
	if evt.UserID != 0 {
		data["user_id"] = evt.UserID
	}
	if evt.ActorID != 0 {
		data["actor_id"] = evt.ActorID
	}
	if evt.ConnectionID != "" {
		data["connection_id"] = evt.ConnectionID
	}
	return data
}
