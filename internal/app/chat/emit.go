package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"rtchat/internal/app/presence"
	"rtchat/internal/pkg/errs"
)

// emit sends one event to conn. Delivery failures are logged and otherwise ignored;
// a slow or closing peer must not affect the caller.
func emit(logger zerolog.Logger, conn presence.Conn, event string, payload any) {
	if err := conn.Emit(event, payload); err != nil {
		logger.Warn().Err(err).Str("event", event).Msg("Dropped outbound event")
	}
}

// emitError reports customErr to conn as an error event.
func emitError(logger zerolog.Logger, conn presence.Conn, customErr *errs.CustomError) {
	emit(logger, conn, EventError, ErrorPayload{Code: customErr.Code, Message: customErr.Message})
}

// broadcast emits the event to a snapshot of every registered connection except the given one.
func broadcast(logger zerolog.Logger, registry *presence.Registry, except presence.Conn, event string, payload any) int {
	conns := registry.Connections(except)
	for _, conn := range conns {
		emit(logger, conn, event, payload)
	}
	return len(conns)
}

// withTimeout bounds ctx by d; a non-positive d leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
