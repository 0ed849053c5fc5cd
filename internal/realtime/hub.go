package realtime

import (
	"context"

	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/transport"
)

// HubDependencies wires the hub. Transport is only consulted to close
// superseded connections under the close policy.
type HubDependencies struct {
	Registry   *Registry
	Dispatcher *Dispatcher
	Transport  transport.Transport
	Logger     logger.Logger
	Activity   activity.Hooks
	Config     config.RealtimeConfig
}

// Hub reacts to transport lifecycle signals and accepts producer requests.
type Hub struct {
	registry   *Registry
	dispatcher *Dispatcher
	closer     transport.Closer
	logger     logger.Logger
	activity   activity.Hooks
	closeOld   bool
}

var _ broadcaster.Broadcaster = (*Hub)(nil)

// NewHub validates dependencies.
func NewHub(deps HubDependencies) (*Hub, error) {
	if deps.Registry == nil {
		return nil, ErrMissingRegistry
	}
	if deps.Dispatcher == nil {
		return nil, ErrMissingDispatcher
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	closer, _ := deps.Transport.(transport.Closer)
	return &Hub{
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		closer:     closer,
		logger:     deps.Logger,
		activity:   deps.Activity,
		closeOld:   deps.Config.SupersedePolicy == config.SupersedeClose,
	}, nil
}

// OnConnectionOpen records a new, still unregistered, connection.
func (h *Hub) OnConnectionOpen(ctx context.Context, conn transport.Conn) {
	if conn == nil {
		return
	}
	h.logger.Debug("realtime connection opened", logger.String("connection_id", conn.ID()))
}

// OnUserRegister binds userID to conn. A connection previously bound to the
// same user stops receiving notifications; under the close policy it is also
// closed through the transport.
func (h *Hub) OnUserRegister(ctx context.Context, userID int64, conn transport.Conn) {
	if conn == nil {
		return
	}
	superseded := h.registry.Register(userID, conn)
	h.logger.Info("realtime user registered",
		logger.Int64("user_id", userID),
		logger.String("connection_id", conn.ID()),
	)
	h.activity.Notify(ctx, activity.Event{
		Verb:         activity.VerbConnectionRegistered,
		ActorID:      userID,
		UserID:       userID,
		ObjectType:   "connection",
		ObjectID:     conn.ID(),
		ConnectionID: conn.ID(),
	})
	if superseded == nil {
		return
	}

	h.logger.Info("realtime connection superseded",
		logger.Int64("user_id", userID),
		logger.String("connection_id", superseded.ID()),
		logger.String("replaced_by", conn.ID()),
	)
	h.activity.Notify(ctx, activity.Event{
		Verb:         activity.VerbConnectionSuperseded,
		UserID:       userID,
		ObjectType:   "connection",
		ObjectID:     superseded.ID(),
		ConnectionID: superseded.ID(),
		Metadata:     map[string]any{"replaced_by": conn.ID()},
	})
	if h.closeOld && h.closer != nil {
		if err := h.closer.Close(ctx, superseded); err != nil {
			h.logger.Warn("realtime close superseded connection failed",
				logger.String("connection_id", superseded.ID()),
				logger.Err(err),
			)
		}
	}
}

// OnConnectionClose drops the registration held by conn, if it still holds one.
func (h *Hub) OnConnectionClose(ctx context.Context, conn transport.Conn) {
	if conn == nil {
		return
	}
	userID, ok := h.registry.Unregister(conn)
	if !ok {
		h.logger.Debug("realtime connection closed", logger.String("connection_id", conn.ID()))
		return
	}
	h.logger.Info("realtime user disconnected",
		logger.Int64("user_id", userID),
		logger.String("connection_id", conn.ID()),
	)
	h.activity.Notify(ctx, activity.Event{
		Verb:         activity.VerbConnectionClosed,
		UserID:       userID,
		ObjectType:   "connection",
		ObjectID:     conn.ID(),
		ConnectionID: conn.ID(),
	})
}

// NotifyUser forwards an already persisted notification to the user's live
// connection. It never fails.
func (h *Hub) NotifyUser(ctx context.Context, userID int64, payload any) {
	h.dispatcher.Deliver(ctx, userID, payload)
}

// NotifyUsers forwards the same payload to several users independently.
func (h *Hub) NotifyUsers(ctx context.Context, userIDs []int64, payload any) {
	h.dispatcher.DeliverToMany(ctx, userIDs, payload)
}

// Online reports whether userID currently has a registered connection.
func (h *Hub) Online(userID int64) bool {
	_, ok := h.registry.Lookup(userID)
	return ok
}

// OnlineCount returns the number of registered users.
func (h *Hub) OnlineCount() int {
	return h.registry.Len()
}

// Broadcast lets the hub sit behind a broadcaster.Broadcaster. Only created
// notifications reach clients; other topics are ignored.
func (h *Hub) Broadcast(ctx context.Context, event broadcaster.Event) error {
	if event.Topic != broadcaster.TopicCreated {
		return nil
	}
	switch n := event.Payload.(type) {
	case *domain.Notification:
		if n != nil {
			h.NotifyUser(ctx, n.UserID, n)
		}
	case domain.Notification:
		h.NotifyUser(ctx, n.UserID, n)
	default:
		h.logger.Warn("realtime broadcast ignored unexpected payload", logger.String("topic", event.Topic))
	}
	return nil
}

// ActivityObserver returns an observer that reports failed deliveries to the
// activity hooks.
func ActivityObserver(hooks activity.Hooks) Observer {
	return ObserverFunc(func(ctx context.Context, outcome Outcome, payload any) {
		if outcome.Status != StatusFailed || len(hooks) == 0 {
			return
		}
		meta := map[string]any{"event": outcome.Event}
		if outcome.Err != nil {
			meta["error"] = outcome.Err.Error()
		}
		hooks.Notify(ctx, activity.Event{
			Verb:         activity.VerbDeliveryFailed,
			UserID:       outcome.UserID,
			ObjectType:   "connection",
			ObjectID:     outcome.ConnectionID,
			ConnectionID: outcome.ConnectionID,
			Metadata:     meta,
		})
	})
}
