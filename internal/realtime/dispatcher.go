package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/transport"
)

// EventNotification is the only event name the dispatcher emits.
const EventNotification = "notification"

// Delivery statuses reported to observers.
const (
	StatusDelivered = "delivered"
	StatusOffline   = "offline"
	StatusFailed    = "failed"
)

var (
	ErrMissingRegistry   = errors.New("realtime: registry is required")
	ErrMissingTransport  = errors.New("realtime: transport is required")
	ErrMissingDispatcher = errors.New("realtime: dispatcher is required")
)

// Outcome describes a single delivery attempt.
type Outcome struct {
	UserID       int64
	ConnectionID string
	Event        string
	Status       string
	Err          error
}

// Observer is told about every delivery attempt, including offline drops.
type Observer interface {
	ObserveDelivery(ctx context.Context, outcome Outcome, payload any)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(ctx context.Context, outcome Outcome, payload any)

// ObserveDelivery implements Observer.
func (f ObserverFunc) ObserveDelivery(ctx context.Context, outcome Outcome, payload any) {
	if f != nil {
		f(ctx, outcome, payload)
	}
}

// Dependencies wires the dispatcher.
type Dependencies struct {
	Registry  *Registry
	Transport transport.Transport
	Logger    logger.Logger
	Observers []Observer
	Config    config.RealtimeConfig
}

// Dispatcher forwards payloads to the live connection of a user, if any.
// Delivery is a single attempt: no retry, no queueing, no acknowledgement.
type Dispatcher struct {
	registry  *Registry
	transport transport.Transport
	closer    transport.Closer
	logger    logger.Logger
	observers []Observer
	workers   int
	evict     bool
}

// NewDispatcher validates dependencies and applies defaults.
func NewDispatcher(deps Dependencies) (*Dispatcher, error) {
	if deps.Registry == nil {
		return nil, ErrMissingRegistry
	}
	if deps.Transport == nil {
		return nil, ErrMissingTransport
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Config.Workers <= 0 {
		deps.Config.Workers = 4
	}
	observers := make([]Observer, 0, len(deps.Observers))
	for _, obs := range deps.Observers {
		if obs != nil {
			observers = append(observers, obs)
		}
	}
	closer, _ := deps.Transport.(transport.Closer)
	return &Dispatcher{
		registry:  deps.Registry,
		transport: deps.Transport,
		closer:    closer,
		logger:    deps.Logger,
		observers: observers,
		workers:   deps.Config.Workers,
		evict:     deps.Config.SendErrorPolicy != config.SendErrorKeep,
	}, nil
}

// Deliver sends payload as a "notification" event to the user's connection.
// Offline users are skipped silently. Send failures are logged, never returned.
func (d *Dispatcher) Deliver(ctx context.Context, userID int64, payload any) {
	if ctx == nil {
		ctx = context.Background()
	}
	d.deliver(ctx, userID, payload)
}

// DeliverToMany delivers payload to each user independently. The order in
// which recipients are served is unspecified.
func (d *Dispatcher) DeliverToMany(ctx context.Context, userIDs []int64, payload any) {
	if len(userIDs) == 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	workerCount := min(d.workers, len(userIDs))
	if workerCount <= 1 {
		for _, id := range userIDs {
			d.deliver(ctx, id, payload)
		}
		return
	}

	jobs := make(chan int64, len(userIDs))
	var wg sync.WaitGroup
	for range workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				d.deliver(ctx, id, payload)
			}
		}()
	}
	for _, id := range userIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, userID int64, payload any) {
	outcome := Outcome{UserID: userID, Event: EventNotification}

	conn, ok := d.registry.Lookup(userID)
	if !ok {
		outcome.Status = StatusOffline
		d.logger.Debug("realtime recipient offline", logger.Int64("user_id", userID))
		d.observe(ctx, outcome, payload)
		return
	}
	outcome.ConnectionID = conn.ID()

	// registry lock is not held here
	if err := d.transport.Send(ctx, conn, EventNotification, payload); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		d.logger.Warn("realtime send failed",
			logger.Int64("user_id", userID),
			logger.String("connection_id", conn.ID()),
			logger.Err(err),
		)
		if d.evict {
			d.evictConn(ctx, userID, conn)
		}
		d.observe(ctx, outcome, payload)
		return
	}

	outcome.Status = StatusDelivered
	d.logger.Debug("realtime notification sent",
		logger.Int64("user_id", userID),
		logger.String("connection_id", conn.ID()),
	)
	d.observe(ctx, outcome, payload)
}

// evictConn drops the registration and closes the socket, so a client that is
// still alive reconnects and registers again.
func (d *Dispatcher) evictConn(ctx context.Context, userID int64, conn transport.Conn) {
	if _, removed := d.registry.Unregister(conn); !removed {
		return
	}
	d.logger.Info("realtime evicted stale connection",
		logger.Int64("user_id", userID),
		logger.String("connection_id", conn.ID()),
	)
	if d.closer == nil {
		return
	}
	if err := d.closer.Close(ctx, conn); err != nil {
		d.logger.Debug("realtime close evicted connection",
			logger.String("connection_id", conn.ID()),
			logger.Err(err),
		)
	}
}

func (d *Dispatcher) observe(ctx context.Context, outcome Outcome, payload any) {
	for _, obs := range d.observers {
		obs.ObserveDelivery(ctx, outcome, payload)
	}
}
