package domain

import "time"

type MessageKind string

const (
	MessageKindChat          MessageKind = "chat"
	MessageKindNotification  MessageKind = "notification"
	MessageKindSystem        MessageKind = "system"
	MessageKindApproval      MessageKind = "approval"
	MessageKindCollaboration MessageKind = "collaboration"
)

func (k MessageKind) Valid() bool {
	switch k {
	case MessageKindChat, MessageKindNotification, MessageKindSystem, MessageKindApproval, MessageKindCollaboration:
		return true
	}
	return false
}

// Message is an immutable event record kept in a room's bounded history.
type Message struct {
	ID         string                 `json:"messageId"`
	Kind       MessageKind            `json:"kind"`
	RoomID     string                 `json:"roomId"`
	SenderID   string                 `json:"senderId"`
	SenderName string                 `json:"senderName,omitempty"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}
