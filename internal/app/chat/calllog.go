package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"rtchat/internal/app/store"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/randx"
)

// pairKey identifies the unordered pair of users taking part in a call.
type pairKey struct {
	a, b string
}

func pairOf(u, v string) pairKey {
	if u > v {
		u, v = v, u
	}
	return pairKey{a: u, b: v}
}

// CallLog keeps best-effort call records in the Call Store. It tracks at most one open call per
// pair of users and never influences routing: failures are logged and signals are never checked
// against the recorded state.
type CallLog struct {
	calls   store.CallStore
	timeout time.Duration

	// mu guards open. It is never held across a store call.
	mu   sync.Mutex
	open map[pairKey]string

	now    func() time.Time
	logger zerolog.Logger
}

// NewCallLog constructs a CallLog. A nil store disables bookkeeping.
func NewCallLog(calls store.CallStore, timeout time.Duration) *CallLog {
	return &CallLog{
		calls:   calls,
		timeout: timeout,
		open:    make(map[pairKey]string),
		now:     time.Now,
		logger:  logx.Component("CallLog"),
	}
}

// Offered records a new call from callerID to receiverID. A call to an offline receiver is
// recorded as missed and is not kept open.
func (l *CallLog) Offered(ctx context.Context, callerID, receiverID string, callType store.CallType, receiverOnline bool) {
	if l == nil || l.calls == nil {
		return
	}

	call := store.Call{
		ID:         randx.CallID(),
		CallerID:   callerID,
		ReceiverID: receiverID,
		CallType:   callType,
		Status:     store.CallMissed,
		StartedAt:  l.now().UTC(),
	}

	if receiverOnline {
		call.Status = store.CallPending

		l.mu.Lock()
		if previous, ok := l.open[pairOf(callerID, receiverID)]; ok {
			l.logger.Debug().Str("call_id", previous).Msg("Open call superseded by a new offer")
		}
		l.open[pairOf(callerID, receiverID)] = call.ID
		l.mu.Unlock()
	}

	storeCtx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	if _, err := l.calls.CreateCall(storeCtx, call); err != nil {
		l.logger.Error().Err(err).
			Str("call_id", call.ID).
			Str("caller_id", callerID).
			Str("receiver_id", receiverID).
			Msg("Failed to record call")
	}
}

// Answered marks the open call between the two users active.
func (l *CallLog) Answered(ctx context.Context, u, v string) {
	if l == nil || l.calls == nil {
		return
	}

	l.mu.Lock()
	callID, ok := l.open[pairOf(u, v)]
	l.mu.Unlock()

	if !ok {
		return
	}

	l.update(ctx, callID, store.CallActive, nil)
}

// Closed ends the open call between the two users with the given terminal status.
func (l *CallLog) Closed(ctx context.Context, u, v string, status store.CallStatus) {
	if l == nil || l.calls == nil {
		return
	}

	l.mu.Lock()
	callID, ok := l.open[pairOf(u, v)]
	delete(l.open, pairOf(u, v))
	l.mu.Unlock()

	if !ok {
		return
	}

	endedAt := l.now().UTC()
	l.update(ctx, callID, status, &endedAt)
}

// OpenCalls returns the number of calls currently tracked as open.
func (l *CallLog) OpenCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.open)
}

func (l *CallLog) update(ctx context.Context, callID string, status store.CallStatus, endedAt *time.Time) {
	storeCtx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.calls.UpdateCallStatus(storeCtx, callID, status, endedAt); err != nil {
		l.logger.Error().Err(err).
			Str("call_id", callID).
			Str("status", string(status)).
			Msg("Failed to update call status")
	}
}
