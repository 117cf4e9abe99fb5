package domain

import (
	"encoding/json"
	"time"
)

type EventType string

// Inbound event vocabulary. Anything outside this set is rejected at the
// boundary with an invalid_event error.
const (
	EventAuthenticate   EventType = "authenticate"
	EventJoinRoom       EventType = "join_room"
	EventLeaveRoom      EventType = "leave_room"
	EventSendMessage    EventType = "send_message"
	EventTypingStart    EventType = "typing_start"
	EventTypingStop     EventType = "typing_stop"
	EventCursorMove     EventType = "cursor_move"
	EventPresenceUpdate EventType = "presence_update"
	EventApprovalAction EventType = "approval_action"
	EventDocumentChange EventType = "document_change"
	EventHeartbeat      EventType = "heartbeat"
)

// Outbound event vocabulary. cursor_move and presence_update share their
// names with the inbound events that trigger them.
const (
	EventAuthenticated    EventType = "authenticated"
	EventUserConnected    EventType = "user_connected"
	EventUserDisconnected EventType = "user_disconnected"
	EventRoomJoined       EventType = "room_joined"
	EventUserJoinedRoom   EventType = "user_joined_room"
	EventUserLeftRoom     EventType = "user_left_room"
	EventNewMessage       EventType = "new_message"
	EventTypingIndicator  EventType = "typing_indicator"
	EventApprovalUpdate   EventType = "approval_update"
	EventDocumentUpdate   EventType = "document_update"
	EventHeartbeatAck     EventType = "heartbeat_ack"
	EventSessionEvicted   EventType = "session_evicted"
	EventError            EventType = "error"
)

// Event is the outbound wire envelope.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// RawEvent is the inbound wire envelope; the payload stays raw until the
// type tag selects the concrete struct to decode into.
type RawEvent struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodePayload unmarshals a raw payload into the payload struct selected
// by the event type. A missing payload decodes into the zero value so that
// field validation can produce a precise error.
func DecodePayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, InvalidEventError("malformed payload: " + err.Error())
	}
	return v, nil
}

// Inbound payloads, one per row of the protocol table.

type AuthenticatePayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarRef   string `json:"avatarRef,omitempty"`
	Role        string `json:"role,omitempty"`
	Token       string `json:"token,omitempty"`
}

type JoinRoomPayload struct {
	RoomID   string   `json:"roomId"`
	Kind     RoomKind `json:"kind"`
	TargetID string   `json:"targetId,omitempty"`
}

type LeaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

type SendMessagePayload struct {
	RoomID   string                 `json:"roomId"`
	Kind     MessageKind            `json:"kind"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type TypingPayload struct {
	RoomID string `json:"roomId"`
}

type CursorMovePayload struct {
	RoomID string  `json:"roomId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type PresencePayload struct {
	Presence Presence `json:"presence"`
}

type ApprovalActionPayload struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
	StageID   string `json:"stageId,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

type DocumentChangePayload struct {
	RoomID     string          `json:"roomId"`
	DocumentID string          `json:"documentId"`
	Changes    json.RawMessage `json:"changes"`
	Version    int64           `json:"version"`
}

// Outbound payloads.

// AuthenticatedPayload acknowledges a successful authenticate with the new
// session plus a snapshot of connected users and active room ids.
type AuthenticatedPayload struct {
	Session        UserInfo   `json:"session"`
	ConnectionID   string     `json:"connectionId"`
	ConnectedUsers []UserInfo `json:"connectedUsers"`
	ActiveRooms    []string   `json:"activeRooms"`
}

type RoomUserPayload struct {
	RoomID      string `json:"roomId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
}

type TypingIndicatorPayload struct {
	RoomID      string `json:"roomId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	IsTyping    bool   `json:"isTyping"`
}

type CursorBroadcastPayload struct {
	RoomID      string  `json:"roomId"`
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Color       string  `json:"color"`
}

type PresenceBroadcastPayload struct {
	UserID   string   `json:"userId"`
	Presence Presence `json:"presence"`
}

type ApprovalUpdatePayload struct {
	RequestID   string    `json:"requestId"`
	Action      string    `json:"action"`
	StageID     string    `json:"stageId,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type DocumentUpdatePayload struct {
	RoomID      string          `json:"roomId"`
	DocumentID  string          `json:"documentId"`
	Changes     json.RawMessage `json:"changes"`
	Version     int64           `json:"version"`
	UserID      string          `json:"userId"`
	DisplayName string          `json:"displayName,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

type SessionEvictedPayload struct {
	Reason string `json:"reason"`
}

type HeartbeatAckPayload struct {
	Timestamp time.Time `json:"timestamp"`
}
