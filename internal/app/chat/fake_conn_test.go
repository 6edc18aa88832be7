package chat

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rtchat/internal/app/presence"
	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
)

type recorded struct {
	Event   string
	Payload any
}

// fakeConn records every emitted event and close call.
type fakeConn struct {
	name string

	mu     sync.Mutex
	events []recorded
	closes []int
}

func newFakeConn(name string) *fakeConn {
	return &fakeConn{name: name}
}

func (c *fakeConn) Emit(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, recorded{Event: event, Payload: payload})
	return nil
}

func (c *fakeConn) Close(code int, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes = append(c.closes, code)
}

func (c *fakeConn) Events() []recorded {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]recorded(nil), c.events...)
}

func (c *fakeConn) Named(event string) []recorded {
	var out []recorded
	for _, e := range c.Events() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (c *fakeConn) Closes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.closes...)
}

func (c *fakeConn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

var (
	_ Conn          = (*fakeConn)(nil)
	_ presence.Conn = (*fakeConn)(nil)
)

var (
	alice = user.Identity{ID: "a0000000-0000-0000-0000-000000000001", Username: "alice", Email: "alice@example.com"}
	bob   = user.Identity{ID: "b0000000-0000-0000-0000-000000000002", Username: "bob", Email: "bob@example.com"}
	carol = user.Identity{ID: "c0000000-0000-0000-0000-000000000003", Username: "carol", Email: "carol@example.com"}
)

// newTestHub returns a hub on a fresh registry whose presence writes always succeed.
func newTestHub(t *testing.T) (*Hub, *store.MockStores) {
	t.Helper()

	stores := &store.MockStores{}
	stores.On("SetOnline", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	return NewHub(presence.NewRegistry(), stores, time.Second), stores
}

// connect registers a fresh fake connection for identity.
func connect(t *testing.T, hub *Hub, identity user.Identity) *fakeConn {
	t.Helper()

	conn := newFakeConn(identity.Username)
	require.NoError(t, hub.Connect(t.Context(), conn, identity))
	return conn
}

// frame encodes an inbound envelope.
func frame(t *testing.T, event string, data any) []byte {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	out, err := json.Marshal(Envelope{Event: event, Data: raw})
	require.NoError(t, err)
	return out
}

func resetAll(conns ...*fakeConn) {
	for _, c := range conns {
		c.Reset()
	}
}
