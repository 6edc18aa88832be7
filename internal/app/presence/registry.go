/*
Package presence implements the in-memory presence registry: the bidirectional mapping between
authenticated users and their live connections.

A user maps to at most one connection (last registration wins), and a connection maps to exactly
one identity for its lifetime. The registry never owns or closes connections; the transport does.
*/
package presence

import (
	"sync"

	"rtchat/internal/app/user"
)

// Conn is a live, authenticated, bidirectional event channel owned by the transport layer.
// Implementations must be comparable (pointer types are) because they key the registry.
type Conn interface {
	// Emit queues an outbound event for delivery. It must not block on network I/O.
	Emit(event string, payload any) error
}

// Registry is the concurrency-safe presence registry.
// Every operation is O(1) (Connections is O(n)) and never performs I/O while holding the lock.
type Registry struct {
	// mu guards both maps; they are always mutated together.
	mu sync.RWMutex

	// byUser maps a user ID to the connection that registered last.
	byUser map[string]Conn

	// byConn maps every registered connection to its identity, including superseded ones.
	byConn map[Conn]user.Identity
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]Conn),
		byConn: make(map[Conn]user.Identity),
	}
}

// Register records conn as the live connection of userID with the given identity.
// A previous connection for userID is overwritten, not closed; it is returned so the transport
// can decide what to do with it. superseded is nil when there was none or it was conn itself.
func (r *Registry) Register(userID string, conn Conn, identity user.Identity) (superseded Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A connection belongs to one identity; drop a stale forward entry if conn is re-registered
	// under a different user.
	if prevIdentity, ok := r.byConn[conn]; ok && prevIdentity.ID != userID {
		if r.byUser[prevIdentity.ID] == conn {
			delete(r.byUser, prevIdentity.ID)
		}
	}

	if prev, ok := r.byUser[userID]; ok && prev != conn {
		superseded = prev
	}

	r.byUser[userID] = conn
	r.byConn[conn] = identity

	return superseded
}

// Unregister removes conn. The user entry is removed only if it still points at conn, so a late
// teardown of an old connection never deletes the mapping of a newer one.
// It returns the identity that was attached to conn, or false if conn was not registered.
func (r *Registry) Unregister(conn Conn) (user.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byConn[conn]
	if !ok {
		return user.Identity{}, false
	}

	delete(r.byConn, conn)

	if current, ok := r.byUser[identity.ID]; ok && current == conn {
		delete(r.byUser, identity.ID)
	}

	return identity, true
}

// Resolve returns the live connection of userID.
func (r *Registry) Resolve(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.byUser[userID]
	return conn, ok
}

// IdentityOf returns the identity attached to conn.
func (r *Registry) IdentityOf(conn Conn) (user.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byConn[conn]
	return identity, ok
}

// Connections returns a snapshot of every active connection except the given one. Superseded
// connections awaiting teardown are not included. Pass nil to include all of them.
// Connections joining or leaving after the call are not reflected.
func (r *Registry) Connections(except Conn) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.byUser))
	for _, conn := range r.byUser {
		if except != nil && conn == except {
			continue
		}
		conns = append(conns, conn)
	}

	return conns
}

// Len returns the number of registered connections, superseded ones included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// OnlineUsers returns the IDs of users that currently resolve to a connection.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	return ids
}
