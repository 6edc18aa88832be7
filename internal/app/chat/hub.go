/*
Package chat contains the real-time core.

This file defines the Hub, the connection lifecycle manager. It registers authenticated
connections in the presence registry, broadcasts presence changes, dispatches inbound events to
the message and call routers, and tears connections down.
*/
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"rtchat/internal/app/presence"
	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
)

const (
	// CloseSessionReplaced is the websocket close code sent to a connection superseded by a
	// newer connection of the same user.
	CloseSessionReplaced = 4001

	// CloseGoingAway is the websocket close code sent to every connection on shutdown.
	CloseGoingAway = 1001

	// DefaultStoreTimeout bounds store calls when no timeout is configured.
	DefaultStoreTimeout = 5 * time.Second
)

// ErrHubClosed is returned by Connect after Shutdown.
var ErrHubClosed = errors.New("chat: hub is shut down")

// Conn is a live connection as seen by the Hub: an event sink that the Hub can also close.
type Conn interface {
	presence.Conn

	// Close terminates the connection with the given websocket close code.
	// It must be safe to call more than once and from any goroutine.
	Close(code int, reason string)
}

// Hub is the connection lifecycle manager and the entry point of every inbound event.
type Hub struct {
	registry *presence.Registry
	users    store.UserStore
	messages *MessageRouter
	calls    *CallRouter

	// storeTimeout bounds the presence persistence calls made by Connect and Disconnect.
	storeTimeout time.Duration

	mu     sync.Mutex
	closed bool

	logger zerolog.Logger
}

// NewHub wires the routers on top of registry and stores.
func NewHub(registry *presence.Registry, stores store.Stores, storeTimeout time.Duration) *Hub {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}

	return &Hub{
		registry:     registry,
		users:        stores,
		messages:     NewMessageRouter(registry, stores, storeTimeout),
		calls:        NewCallRouter(registry, NewCallLog(stores, storeTimeout)),
		storeTimeout: storeTimeout,
		logger:       logx.Component("Hub"),
	}
}

// Registry exposes the presence registry backing the hub.
func (h *Hub) Registry() *presence.Registry {
	return h.registry
}

// Connect activates an authenticated connection: it registers conn for identity, closes any
// connection it supersedes, persists the online flag and broadcasts user:online to everyone else.
func (h *Hub) Connect(ctx context.Context, conn Conn, identity user.Identity) error {
	// Registering under mu keeps Shutdown's snapshot from missing a connection that is
	// admitted concurrently.
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	superseded := h.registry.Register(identity.ID, conn, identity)
	h.mu.Unlock()

	if superseded != nil {
		h.logger.Warn().Str("user_id", identity.ID).Msg("User connected again. Closing old connection for replacement.")
		if old, ok := superseded.(Conn); ok {
			old.Close(CloseSessionReplaced, errs.NewError(errs.ErrSessionKicked).Message)
		}
	}

	h.setOnline(ctx, identity.ID, true)

	n := broadcast(h.logger, h.registry, conn, EventUserOnline, PresencePayload{UserID: identity.ID, IsOnline: true})

	h.logger.Info().
		Str("user_id", identity.ID).
		Int("notified", n).
		Int("total_connections", h.registry.Len()).
		Msg("Connection active")

	return nil
}

// Disconnect tears down conn. A connection that was already superseded by a newer connection
// of the same user is only unregistered; presence is left untouched because the user is still
// online through the newer one. Calling Disconnect for an unknown connection is a no-op.
func (h *Hub) Disconnect(ctx context.Context, conn Conn) {
	identity, ok := h.registry.Unregister(conn)
	if !ok {
		return
	}

	if _, stillOnline := h.registry.Resolve(identity.ID); stillOnline {
		h.logger.Info().Str("user_id", identity.ID).Msg("Ignoring presence change for superseded connection")
		return
	}

	h.setOnline(ctx, identity.ID, false)

	// A reconnect may have landed while the offline flag was being written. Its online broadcast
	// has already gone out, so skip ours and restore the flag it may have lost to our write.
	if _, reconnected := h.registry.Resolve(identity.ID); reconnected {
		h.logger.Info().Str("user_id", identity.ID).Msg("User reconnected during teardown")
		h.setOnline(ctx, identity.ID, true)
		return
	}

	n := broadcast(h.logger, h.registry, conn, EventUserOnline, PresencePayload{UserID: identity.ID, IsOnline: false})

	h.logger.Info().
		Str("user_id", identity.ID).
		Int("notified", n).
		Int("total_connections", h.registry.Len()).
		Msg("Connection closed")
}

// Dispatch decodes one inbound frame from conn and routes it. Malformed frames, invalid payloads
// and unknown events are answered with an error event; the connection stays open.
// Frames from connections that are no longer registered are ignored.
func (h *Hub) Dispatch(ctx context.Context, conn Conn, frame []byte) {
	identity, ok := h.registry.IdentityOf(conn)
	if !ok {
		h.logger.Debug().Msg("Ignoring frame from unregistered connection")
		return
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil || env.Event == "" {
		h.logger.Warn().Err(err).Str("user_id", identity.ID).Msg("Client sent invalid event envelope")
		emitError(h.logger, conn, errs.NewError(errs.ErrInvalidEventPayload))
		return
	}

	switch env.Event {
	case EventMessageSend:
		var p SendPayload
		if h.decode(conn, env, &p) {
			h.messages.Send(ctx, conn, identity, p)
		}

	case EventMessageTyping:
		var p TypingPayload
		if h.decode(conn, env, &p) {
			h.messages.Typing(conn, identity, p)
		}

	case EventMessageRead:
		var p ReadPayload
		if h.decode(conn, env, &p) {
			h.messages.Read(ctx, conn, identity, p)
		}

	case EventCallOffer:
		var p OfferPayload
		if h.decode(conn, env, &p) {
			h.calls.Offer(ctx, conn, identity, p)
		}

	case EventCallAnswer:
		var p AnswerPayload
		if h.decode(conn, env, &p) {
			h.calls.Answer(ctx, conn, identity, p)
		}

	case EventCallICE:
		var p ICEPayload
		if h.decode(conn, env, &p) {
			h.calls.ICECandidate(conn, identity, p)
		}

	case EventCallHangUp:
		var p TargetPayload
		if h.decode(conn, env, &p) {
			h.calls.HangUp(ctx, conn, identity, p)
		}

	case EventCallReject:
		var p TargetPayload
		if h.decode(conn, env, &p) {
			h.calls.Reject(ctx, conn, identity, p)
		}

	default:
		h.logger.Warn().Str("event", env.Event).Str("user_id", identity.ID).Msg("Client sent unsupported event")
		emitError(h.logger, conn, errs.NewError(errs.ErrUnsupportedEvent, env.Event))
	}
}

// Shutdown refuses new connections and closes every live one. Each connection's own teardown
// then runs Disconnect.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	conns := h.registry.Connections(nil)
	h.mu.Unlock()

	h.logger.Info().Int("connections", len(conns)).Msg("Shutting down Hub...")

	for _, c := range conns {
		if conn, ok := c.(Conn); ok {
			conn.Close(CloseGoingAway, "server shutting down")
		}
	}

	h.logger.Info().Msg("Hub shutdown complete.")
}

// decode unmarshals the envelope data into dst, answering with an error event on failure.
func (h *Hub) decode(conn Conn, env Envelope, dst any) bool {
	if len(env.Data) == 0 {
		emitError(h.logger, conn, errs.NewError(errs.ErrInvalidEventPayload))
		return false
	}

	if err := json.Unmarshal(env.Data, dst); err != nil {
		h.logger.Warn().Err(err).Str("event", env.Event).Msg("Client sent invalid event payload")
		emitError(h.logger, conn, errs.NewError(errs.ErrInvalidEventPayload))
		return false
	}

	return true
}

// setOnline persists the presence flag. Failure is logged and never prevents the transition.
func (h *Hub) setOnline(ctx context.Context, userID string, online bool) {
	storeCtx, cancel := withTimeout(context.WithoutCancel(ctx), h.storeTimeout)
	defer cancel()

	if err := h.users.SetOnline(storeCtx, userID, online); err != nil {
		h.logger.Error().Err(err).
			Str("user_id", userID).
			Bool("online", online).
			Msg("Failed to persist online status")
	}
}
