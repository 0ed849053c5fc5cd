package broadcaster

import "context"

// Func adapts a function to the Broadcaster interface.
type Func func(ctx context.Context, event Event) error

// Broadcast satisfies the Broadcaster interface.
func (f Func) Broadcast(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// Fanout forwards events to multiple downstream broadcasters.
type Fanout struct {
	targets []Broadcaster
}

// NewFanout assembles a broadcaster that multicasts to the provided targets.
// Nil targets are dropped.
func NewFanout(targets ...Broadcaster) *Fanout {
	filtered := make([]Broadcaster, 0, len(targets))
	for _, target := range targets {
		if target != nil {
			filtered = append(filtered, target)
		}
	}
	return &Fanout{targets: filtered}
}

var _ Broadcaster = (*Fanout)(nil)

// Broadcast delivers the event to each target, returning the first error observed.
func (f *Fanout) Broadcast(ctx context.Context, event Event) error {
	var firstErr error
	for _, target := range f.targets {
		if err := target.Broadcast(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OnlyTopics wraps target so it only sees events whose topic is listed.
func OnlyTopics(target Broadcaster, topics ...string) Broadcaster {
	if target == nil {
		return &Nop{}
	}
	allowed := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		allowed[topic] = struct{}{}
	}
	return Func(func(ctx context.Context, event Event) error {
		if _, ok := allowed[event.Topic]; !ok {
			return nil
		}
		return target.Broadcast(ctx, event)
	})
}
