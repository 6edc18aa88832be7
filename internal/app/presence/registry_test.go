package presence

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtchat/internal/app/user"
)

type stubConn struct {
	name string
}

func (c *stubConn) Emit(string, any) error { return nil }

func identity(id string) user.Identity {
	return user.Identity{ID: id, Username: "user-" + id, Email: id + "@example.com"}
}

func TestRegisterResolveIdentityOf(t *testing.T) {
	r := NewRegistry()
	c := &stubConn{name: "a1"}

	superseded := r.Register("a", c, identity("a"))
	assert.Nil(t, superseded)

	got, ok := r.Resolve("a")
	require.True(t, ok)
	assert.Same(t, c, got)

	id, ok := r.IdentityOf(c)
	require.True(t, ok)
	assert.Equal(t, "a", id.ID)

	_, ok = r.Resolve("nobody")
	assert.False(t, ok)

	_, ok = r.IdentityOf(&stubConn{})
	assert.False(t, ok)
}

func TestLastWriterWinsAndGuardedUnregister(t *testing.T) {
	r := NewRegistry()
	h1 := &stubConn{name: "h1"}
	h2 := &stubConn{name: "h2"}

	r.Register("a", h1, identity("a"))
	superseded := r.Register("a", h2, identity("a"))
	assert.Same(t, h1, superseded, "the previous handle is reported, not closed")

	got, ok := r.Resolve("a")
	require.True(t, ok)
	assert.Same(t, h2, got)

	// The late teardown of h1 must leave the newer mapping alone.
	removed, ok := r.Unregister(h1)
	require.True(t, ok)
	assert.Equal(t, "a", removed.ID)

	got, ok = r.Resolve("a")
	require.True(t, ok, "unregistering a superseded handle must not remove the user entry")
	assert.Same(t, h2, got)

	_, ok = r.Unregister(h2)
	require.True(t, ok)

	_, ok = r.Resolve("a")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegisterSameHandleTwiceIsNotSupersession(t *testing.T) {
	r := NewRegistry()
	c := &stubConn{}

	r.Register("a", c, identity("a"))
	assert.Nil(t, r.Register("a", c, identity("a")))
	assert.Equal(t, 1, r.Len())
}

func TestReRegisterHandleUnderAnotherUser(t *testing.T) {
	r := NewRegistry()
	c := &stubConn{}

	r.Register("a", c, identity("a"))
	r.Register("b", c, identity("b"))

	_, ok := r.Resolve("a")
	assert.False(t, ok, "a handle maps to exactly one identity")

	id, ok := r.IdentityOf(c)
	require.True(t, ok)
	assert.Equal(t, "b", id.ID)
}

func TestUnregisterUnknown(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Unregister(&stubConn{})
	assert.False(t, ok)
}

func TestConnectionsSkipsSupersededHandles(t *testing.T) {
	r := NewRegistry()
	old, fresh, other := &stubConn{name: "old"}, &stubConn{name: "fresh"}, &stubConn{name: "other"}
	r.Register("a", old, identity("a"))
	r.Register("b", other, identity("b"))
	r.Register("a", fresh, identity("a"))

	assert.ElementsMatch(t, []Conn{fresh, other}, r.Connections(nil))
	assert.ElementsMatch(t, []Conn{fresh}, r.Connections(other))
	assert.Equal(t, 3, r.Len())

	r.Unregister(old)
	assert.Equal(t, 2, r.Len())
}

func TestConnectionsSnapshot(t *testing.T) {
	r := NewRegistry()
	a, b, c := &stubConn{name: "a"}, &stubConn{name: "b"}, &stubConn{name: "c"}
	r.Register("a", a, identity("a"))
	r.Register("b", b, identity("b"))
	r.Register("c", c, identity("c"))

	assert.ElementsMatch(t, []Conn{b, c}, r.Connections(a))
	assert.ElementsMatch(t, []Conn{a, b, c}, r.Connections(nil))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, r.OnlineUsers())
}

// assertConsistent checks that every resolvable user points at a handle whose identity matches.
func assertConsistent(t *testing.T, r *Registry) {
	t.Helper()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for userID, conn := range r.byUser {
		id, ok := r.byConn[conn]
		if !assert.True(t, ok, "user %s resolves to an unregistered handle", userID) {
			continue
		}
		assert.Equal(t, userID, id.ID, "identity mismatch for user %s", userID)
	}
}

func TestRandomSequencesStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		r := NewRegistry()
		handles := make([]*stubConn, 8)
		for i := range handles {
			handles[i] = &stubConn{name: fmt.Sprintf("h%d", i)}
		}
		users := []string{"a", "b", "c"}

		for step := 0; step < 200; step++ {
			h := handles[rng.Intn(len(handles))]
			if rng.Intn(2) == 0 {
				u := users[rng.Intn(len(users))]
				r.Register(u, h, identity(u))
			} else {
				r.Unregister(h)
			}
			assertConsistent(t, r)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("u%d", i%4)
			for j := 0; j < 200; j++ {
				c := &stubConn{}
				r.Register(userID, c, identity(userID))
				r.Resolve(userID)
				r.IdentityOf(c)
				r.Connections(c)
				r.Unregister(c)
			}
		}(i)
	}

	wg.Wait()
	assertConsistent(t, r)
	assert.Equal(t, 0, r.Len())
}
