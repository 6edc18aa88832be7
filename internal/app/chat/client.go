/*
Package chat contains the real-time core.

This file defines the Client struct, representing an active WebSocket connection. It manages the
connection lifecycle state, the message communication loops (ReadPump and WritePump), and its
interaction with the Hub.
*/
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"rtchat/internal/app/user"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client. Room for an SDP offer.
	maxMessageSize = 64 << 10

	// capacity of the outbound queue.
	sendQueueSize = 256

	// DefaultEventRate and DefaultEventBurst bound inbound events per connection.
	DefaultEventRate  = 20
	DefaultEventBurst = 40
)

var (
	// ErrConnClosed is returned by Emit after the connection was closed.
	ErrConnClosed = errors.New("chat: connection closed")

	// ErrSendQueueFull is returned by Emit when the outbound queue is full; the event is dropped.
	ErrSendQueueFull = errors.New("chat: client send queue full")
)

// State is the lifecycle state of a connection.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Client is an authenticated WebSocket connection.
type Client struct {
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// identity attached at authentication time. It is not refreshed for the life of the connection.
	identity user.Identity

	// a buffered channel used to queue frames waiting to be sent to the client. It is never
	// closed; done signals termination instead.
	send chan []byte

	// done is closed exactly once when the connection starts closing.
	done      chan struct{}
	closeOnce sync.Once

	// limiter bounds the rate of inbound events.
	limiter *rate.Limiter

	state atomic.Int32

	// structured logger with user and connection context.
	logger zerolog.Logger
}

// ClientOptions tunes a Client.
type ClientOptions struct {
	EventRate  rate.Limit
	EventBurst int
}

// NewClient constructs a Client for an already authenticated connection.
func NewClient(hub *Hub, wsConn *websocket.Conn, identity user.Identity, opts ClientOptions) *Client {
	if opts.EventRate <= 0 {
		opts.EventRate = DefaultEventRate
	}
	if opts.EventBurst <= 0 {
		opts.EventBurst = DefaultEventBurst
	}

	c := &Client{
		hub:      hub,
		conn:     wsConn,
		identity: identity,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
		limiter:  rate.NewLimiter(opts.EventRate, opts.EventBurst),
		logger: logx.Logger().With().
			Str("component", "Client").
			Str("user_id", identity.ID).
			Str("conn_id", randx.ConnID()).
			Logger(),
	}
	c.state.Store(int32(StateAuthenticated))

	return c
}

// Identity returns the identity the connection was authenticated as.
func (c *Client) Identity() user.Identity {
	return c.identity
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Serve activates the client in the hub and runs both pumps until the connection closes.
// It blocks; the caller's goroutine becomes the read pump.
func (c *Client) Serve(ctx context.Context) error {
	if err := c.hub.Connect(ctx, c, c.identity); err != nil {
		c.state.Store(int32(StateClosed))
		c.conn.Close()
		return err
	}
	c.state.Store(int32(StateActive))

	go c.WritePump()

	c.ReadPump(ctx)
	return nil
}

// ReadPump handles reading frames from the WebSocket connection.
// It handles heartbeats (Pong), per-connection rate limiting, event dispatch, and performs
// cleanup upon connection closure.
func (c *Client) ReadPump(ctx context.Context) {
	defer c.cleanupOnDisconnect(ctx)

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, CloseSessionReplaced) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		if !c.limiter.Allow() {
			c.logger.Warn().Msg("Client exceeded event rate limit")
			emitError(c.logger, c, errs.NewError(errs.ErrRateLimitExceeded))
			continue
		}

		c.hub.Dispatch(ctx, c, frame)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect(ctx context.Context) {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Disconnect(ctx, c)
	c.state.Store(int32(StateClosed))

	c.closeOnce.Do(func() { close(c.done) })

	if err := c.conn.Close(); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump handles writing frames from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit so the read pump unblocks
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if !c.writeFrame(frame) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}

		case <-c.done:
			return
		}
	}
}

// writeFrame writes one queued frame. It returns false if the WritePump loop should terminate.
func (c *Client) writeFrame(frame []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// Emit marshals the event and queues it without blocking. A full queue drops the event.
func (c *Client) Emit(event string, payload any) error {
	frame, err := json.Marshal(outboundEnvelope{Event: event, Data: payload})
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event for client")
		return err
	}

	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Str("event", event).Msg("Client send channel full, dropping event")
		return ErrSendQueueFull
	}
}

// Close sends a close frame with the given code and stops the write pump, which closes the
// underlying connection; the read pump then runs the hub teardown. Safe to call repeatedly.
func (c *Client) Close(code int, reason string) {
	c.closeOnce.Do(func() {
		c.logger.Info().
			Int("close_code", code).
			Str("reason", reason).
			Msg("Sending WS close message and closing connection.")

		closeMessage := websocket.FormatCloseMessage(code, reason)
		if err := c.conn.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(writeWait)); err != nil {
			c.logger.Warn().Err(err).Int("close_code", code).Msg("Failed to send WS close message.")
		}

		close(c.done)
	})
}
