/*
Package chat contains the real-time core: the event codec, the message and call-signaling routers,
call bookkeeping, the connection lifecycle manager (Hub) and the websocket Client transport.

This file defines the event names and payloads exchanged over a connection. Every frame is a JSON
envelope {"event": "<name>", "data": <payload>} in both directions.
*/
package chat

import (
	"encoding/json"

	"rtchat/internal/app/store"
	"rtchat/internal/app/user"
)

// Inbound events sent by clients.
const (
	EventMessageSend   = "message:send"
	EventMessageTyping = "message:typing"
	EventMessageRead   = "message:read"
	EventCallOffer     = "call:offer"
	EventCallAnswer    = "call:answer"
	EventCallICE       = "call:ice-candidate"
	EventCallHangUp    = "call:hang-up"
	EventCallReject    = "call:reject"
)

// Outbound events emitted by the server. Typing, read, offer, answer, ICE and hang-up reuse
// the inbound names.
const (
	EventMessageReceive   = "message:receive"
	EventMessageConfirmed = "message:confirmed"
	EventUserOnline       = "user:online"
	EventCallIncoming     = "call:incoming"
	EventCallRejected     = "call:rejected"
	EventCallFailed       = "call:failed"
	EventError            = "error"
)

// ReasonUserOffline is the call:failed reason for offers to users without a live connection.
const ReasonUserOffline = "User is offline"

// Envelope is the wire frame of a single event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outboundEnvelope is the encoding-side twin of Envelope.
type outboundEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// SendPayload is the data of message:send.
type SendPayload struct {
	Content    string            `json:"content"`
	Type       store.MessageType `json:"type"`
	ReceiverID string            `json:"receiverId"`
	TempID     string            `json:"tempId,omitempty"`
	ReplyTo    string            `json:"replyTo,omitempty"`
	FileURL    string            `json:"fileUrl,omitempty"`
	FileName   string            `json:"fileName,omitempty"`
	FileSize   int64             `json:"fileSize,omitempty"`
}

// ConfirmedPayload is the data of message:confirmed.
type ConfirmedPayload struct {
	Message store.Message `json:"message"`
	TempID  string        `json:"tempId,omitempty"`
}

// TypingPayload is the data of message:typing in both directions.
// IsTyping and UserID are relayed as the client sent them; From is set by the server to the
// authenticated sender on rebroadcast.
type TypingPayload struct {
	IsTyping bool   `json:"isTyping"`
	UserID   string `json:"userId"`
	From     string `json:"from,omitempty"`
}

// ReadPayload is the data of message:read in both directions.
// MessageID and UserID are relayed unchanged; From is the authenticated reader.
type ReadPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	From      string `json:"from,omitempty"`
}

// PresencePayload is the data of user:online.
type PresencePayload struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// OfferPayload is the data of an inbound call:offer.
type OfferPayload struct {
	Offer    json.RawMessage `json:"offer"`
	CallType store.CallType  `json:"callType"`
	To       string          `json:"to"`
}

// AnswerPayload is the data of an inbound call:answer.
type AnswerPayload struct {
	Answer json.RawMessage `json:"answer"`
	To     string          `json:"to"`
}

// ICEPayload is the data of an inbound call:ice-candidate.
type ICEPayload struct {
	Candidate json.RawMessage `json:"candidate"`
	To        string          `json:"to"`
}

// TargetPayload is the data of an inbound call:hang-up or call:reject.
type TargetPayload struct {
	To string `json:"to"`
}

// RelayedOffer is the data of an outbound call:offer.
type RelayedOffer struct {
	Offer    json.RawMessage `json:"offer"`
	CallType store.CallType  `json:"callType"`
	From     string          `json:"from"`
}

// RelayedAnswer is the data of an outbound call:answer.
type RelayedAnswer struct {
	Answer json.RawMessage `json:"answer"`
	From   string          `json:"from"`
}

// RelayedICE is the data of an outbound call:ice-candidate.
type RelayedICE struct {
	Candidate json.RawMessage `json:"candidate"`
	From      string          `json:"from"`
}

// FromPayload is the data of an outbound call:hang-up or call:rejected.
type FromPayload struct {
	From string `json:"from"`
}

// IncomingPayload is the data of call:incoming, a user-facing notification carrying the caller.
type IncomingPayload struct {
	From     user.Identity  `json:"from"`
	CallType store.CallType `json:"callType"`
}

// FailedPayload is the data of call:failed.
type FailedPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload is the data of an error event.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
