package store

import "time"

// CallType is the media kind of a call.
type CallType string

const (
	CallAudio CallType = "audio"
	CallVideo CallType = "video"
)

// Valid reports whether t is audio or video.
func (t CallType) Valid() bool {
	return t == CallAudio || t == CallVideo
}

// CallStatus is the bookkeeping status of a call record.
type CallStatus string

const (
	CallPending  CallStatus = "pending"
	CallActive   CallStatus = "active"
	CallEnded    CallStatus = "ended"
	CallMissed   CallStatus = "missed"
	CallRejected CallStatus = "rejected"
)

// Call is a bookkeeping record of one call attempt between two users.
type Call struct {
	ID         string     `json:"id"`
	CallerID   string     `json:"callerId"`
	ReceiverID string     `json:"receiverId"`
	CallType   CallType   `json:"callType"`
	Status     CallStatus `json:"status"`
	StartedAt  time.Time  `json:"startedAt"`
	EndedAt    *time.Time `json:"endedAt,omitempty"`
	Duration   *int       `json:"duration,omitempty"`
}
