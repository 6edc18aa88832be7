package store

import "time"

// MessageType enumerates the content kinds a chat message can carry.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
	MessageAudio MessageType = "audio"
	MessageVideo MessageType = "video"
)

// Valid reports whether t is one of the known message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile, MessageAudio, MessageVideo:
		return true
	}
	return false
}

// Message is a persisted one-to-one chat message.
type Message struct {
	ID          string      `json:"id"`
	Content     string      `json:"content"`
	Type        MessageType `json:"type"`
	SenderID    string      `json:"senderId"`
	ReceiverID  string      `json:"receiverId"`
	CreatedAt   time.Time   `json:"createdAt"`
	IsRead      bool        `json:"isRead"`
	IsDelivered bool        `json:"isDelivered"`
	ReplyTo     string      `json:"replyTo,omitempty"`
	FileURL     string      `json:"fileUrl,omitempty"`
	FileName    string      `json:"fileName,omitempty"`
	FileSize    int64       `json:"fileSize,omitempty"`
}
