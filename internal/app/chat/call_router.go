package chat

import (
	"context"

	"github.com/rs/zerolog"

	"rtchat/internal/app/presence"
	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
	"rtchat/internal/pkg/logx"
)

// CallRouter relays WebRTC signaling between users. It carries no media and enforces no call
// state: any signal is relayed to the target's live connection regardless of what came before.
// Only an offer to an offline target is reported back to the caller; every other signal to an
// offline target is dropped silently.
type CallRouter struct {
	registry *presence.Registry
	log      *CallLog
	logger   zerolog.Logger
}

// NewCallRouter constructs a CallRouter. log may be nil to disable bookkeeping.
func NewCallRouter(registry *presence.Registry, log *CallLog) *CallRouter {
	return &CallRouter{
		registry: registry,
		log:      log,
		logger:   logx.Component("CallRouter"),
	}
}

// Offer forwards a call offer. An online target receives both call:offer (the protocol payload)
// and call:incoming (the notification with the caller's identity).
func (cr *CallRouter) Offer(ctx context.Context, from presence.Conn, caller user.Identity, p OfferPayload) {
	if customErr := p.Validate(); customErr != nil {
		emitError(cr.logger, from, customErr)
		return
	}

	target, online := cr.registry.Resolve(p.To)
	if online {
		emit(cr.logger, target, EventCallOffer, RelayedOffer{Offer: p.Offer, CallType: p.CallType, From: caller.ID})
		emit(cr.logger, target, EventCallIncoming, IncomingPayload{From: caller, CallType: p.CallType})
	} else {
		cr.logger.Info().Str("caller_id", caller.ID).Str("target_id", p.To).Msg("Call target offline")
		emit(cr.logger, from, EventCallFailed, FailedPayload{Reason: ReasonUserOffline})
	}

	cr.log.Offered(ctx, caller.ID, p.To, p.CallType, online)
}

// Answer forwards a call answer if the target is online.
func (cr *CallRouter) Answer(ctx context.Context, from presence.Conn, callee user.Identity, p AnswerPayload) {
	if customErr := p.Validate(); customErr != nil {
		emitError(cr.logger, from, customErr)
		return
	}

	if cr.relay(p.To, EventCallAnswer, RelayedAnswer{Answer: p.Answer, From: callee.ID}) {
		cr.log.Answered(ctx, callee.ID, p.To)
	}
}

// ICECandidate forwards a trickled ICE candidate if the target is online.
func (cr *CallRouter) ICECandidate(from presence.Conn, sender user.Identity, p ICEPayload) {
	if customErr := p.Validate(); customErr != nil {
		emitError(cr.logger, from, customErr)
		return
	}

	cr.relay(p.To, EventCallICE, RelayedICE{Candidate: p.Candidate, From: sender.ID})
}

// HangUp forwards a hang-up if the target is online and closes the pair's call record.
func (cr *CallRouter) HangUp(ctx context.Context, from presence.Conn, sender user.Identity, p TargetPayload) {
	if customErr := p.Validate(); customErr != nil {
		emitError(cr.logger, from, customErr)
		return
	}

	cr.relay(p.To, EventCallHangUp, FromPayload{From: sender.ID})
	cr.log.Closed(ctx, sender.ID, p.To, store.CallEnded)
}

// Reject forwards a rejection as call:rejected if the target is online and closes the pair's
// call record.
func (cr *CallRouter) Reject(ctx context.Context, from presence.Conn, sender user.Identity, p TargetPayload) {
	if customErr := p.Validate(); customErr != nil {
		emitError(cr.logger, from, customErr)
		return
	}

	cr.relay(p.To, EventCallRejected, FromPayload{From: sender.ID})
	cr.log.Closed(ctx, sender.ID, p.To, store.CallRejected)
}

// relay emits the event to userID's live connection and reports whether one existed.
func (cr *CallRouter) relay(userID, event string, payload any) bool {
	target, ok := cr.registry.Resolve(userID)
	if !ok {
		cr.logger.Debug().Str("target_id", userID).Str("event", event).Msg("Signal target offline, dropped")
		return false
	}

	emit(cr.logger, target, event, payload)
	return true
}
