package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"rtchat/internal/app/presence"
	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/randx"
)

// MessageRouter routes chat events: send, typing and read receipts.
// Every failure is reported to the originating connection only.
type MessageRouter struct {
	registry *presence.Registry
	messages store.MessageStore

	// timeout bounds every store call made while handling one event.
	timeout time.Duration

	// now is replaceable in tests.
	now func() time.Time

	logger zerolog.Logger
}

// NewMessageRouter constructs a MessageRouter.
func NewMessageRouter(registry *presence.Registry, messages store.MessageStore, timeout time.Duration) *MessageRouter {
	return &MessageRouter{
		registry: registry,
		messages: messages,
		timeout:  timeout,
		now:      time.Now,
		logger:   logx.Component("MessageRouter"),
	}
}

// Send persists a new message from sender and delivers it to the receiver's live connection,
// if any. The sender always gets message:confirmed on success. When persistence fails the
// sender gets an error event and nothing is delivered.
func (mr *MessageRouter) Send(ctx context.Context, from presence.Conn, sender user.Identity, p SendPayload) {
	if customErr := p.Validate(); customErr != nil {
		emitError(mr.logger, from, customErr)
		return
	}

	msg := store.Message{
		ID:          randx.MessageID(),
		Content:     p.Content,
		Type:        p.Type,
		SenderID:    sender.ID,
		ReceiverID:  p.ReceiverID,
		CreatedAt:   mr.now().UTC(),
		IsRead:      false,
		IsDelivered: true,
		ReplyTo:     p.ReplyTo,
		FileURL:     p.FileURL,
		FileName:    p.FileName,
		FileSize:    p.FileSize,
	}

	storeCtx, cancel := withTimeout(ctx, mr.timeout)
	saved, err := mr.messages.CreateMessage(storeCtx, msg)
	cancel()

	if err != nil {
		mr.logger.Error().Err(err).
			Str("sender_id", sender.ID).
			Str("receiver_id", p.ReceiverID).
			Msg("Failed to persist message")
		emitError(mr.logger, from, errs.NewError(errs.ErrMessageSendFailed))
		return
	}

	if receiver, ok := mr.registry.Resolve(saved.ReceiverID); ok {
		emit(mr.logger, receiver, EventMessageReceive, saved)
	} else {
		mr.logger.Debug().
			Str("message_id", saved.ID).
			Str("receiver_id", saved.ReceiverID).
			Msg("Receiver offline, message stored for history")
	}

	emit(mr.logger, from, EventMessageConfirmed, ConfirmedPayload{Message: saved, TempID: p.TempID})
}

// Typing rebroadcasts a typing indicator to every other connection. Nothing is persisted.
func (mr *MessageRouter) Typing(from presence.Conn, sender user.Identity, p TypingPayload) {
	p.From = sender.ID
	broadcast(mr.logger, mr.registry, from, EventMessageTyping, p)
}

// Read marks a message as read and rebroadcasts the receipt to every other connection.
// A store failure is logged and the receipt is dropped; the reader is not told.
func (mr *MessageRouter) Read(ctx context.Context, from presence.Conn, reader user.Identity, p ReadPayload) {
	if customErr := p.Validate(); customErr != nil {
		emitError(mr.logger, from, customErr)
		return
	}

	storeCtx, cancel := withTimeout(ctx, mr.timeout)
	err := mr.messages.MarkMessageRead(storeCtx, p.MessageID)
	cancel()

	if err != nil {
		mr.logger.Error().Err(err).
			Str("message_id", p.MessageID).
			Str("user_id", reader.ID).
			Msg("Failed to mark message as read")
		return
	}

	p.From = reader.ID
	broadcast(mr.logger, mr.registry, from, EventMessageRead, p)
}
