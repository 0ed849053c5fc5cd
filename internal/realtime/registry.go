package realtime

import (
	"slices"
	"sync"

	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/transport"
)

// Registry maps each user to the one connection that currently represents
// them. The most recent registration wins and a connection serves at most
// one user. The zero value is not usable; call NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	byUser map[int64]transport.Conn
	byConn map[string]int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[int64]transport.Conn),
		byConn: make(map[string]int64),
	}
}

// Register binds userID to conn, replacing any previous binding for the user.
// It returns the connection that lost the binding, or nil when there was none
// or it was conn itself. If conn was bound to another user, that entry is
// dropped.
func (r *Registry) Register(userID int64, conn transport.Conn) transport.Conn {
	if conn == nil {
		return nil
	}
	connID := conn.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byConn[connID]; ok && owner != userID {
		delete(r.byUser, owner)
	}

	var superseded transport.Conn
	if previous, ok := r.byUser[userID]; ok && previous.ID() != connID {
		delete(r.byConn, previous.ID())
		superseded = previous
	}

	r.byUser[userID] = conn
	r.byConn[connID] = userID
	return superseded
}

// Unregister removes the entry bound to conn. It reports the user that was
// bound, and false when conn held no entry (never registered, or superseded).
func (r *Registry) Unregister(conn transport.Conn) (int64, bool) {
	if conn == nil {
		return 0, false
	}
	connID := conn.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return 0, false
	}
	delete(r.byConn, connID)
	if current, found := r.byUser[userID]; found && current.ID() == connID {
		delete(r.byUser, userID)
	}
	return userID, true
}

// Lookup returns the connection currently bound to userID.
func (r *Registry) Lookup(userID int64) (transport.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

// Users returns the registered user ids in ascending order.
func (r *Registry) Users() []int64 {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	slices.Sort(ids)
	return ids
}
