package transport

import (
	"context"
	"time"
)

// Conn is an opaque reference to one live client session. The transport
// adapter owns its lifecycle; the realtime core only keeps references.
type Conn interface {
	ID() string
	OpenedAt() time.Time
}

// Transport delivers a named event to a single connection.
type Transport interface {
	Send(ctx context.Context, conn Conn, event string, payload any) error
}

// Closer is implemented by transports able to terminate a session on request.
type Closer interface {
	Close(ctx context.Context, conn Conn) error
}

// Func adapts a function into a Transport.
type Func func(ctx context.Context, conn Conn, event string, payload any) error

// Send implements Transport.
func (f Func) Send(ctx context.Context, conn Conn, event string, payload any) error {
	if f == nil {
		return nil
	}
	return f(ctx, conn, event, payload)
}

// Nop discards every event.
type Nop struct{}

var _ Transport = (*Nop)(nil)

func (n *Nop) Send(ctx context.Context, conn Conn, event string, payload any) error { return nil }

// StaticConn is a value Conn, handy for tests and for transports whose
// sessions are identified by a plain string.
type StaticConn struct {
	SessionID string
	Opened    time.Time
}

func (c StaticConn) ID() string          { return c.SessionID }
func (c StaticConn) OpenedAt() time.Time { return c.Opened }
