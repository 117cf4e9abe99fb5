package domain

import "time"

type Presence string

const (
	PresenceOnline    Presence = "online"
	PresenceAway      Presence = "away"
	PresenceBusy      Presence = "busy"
	PresenceInvisible Presence = "invisible"
)

func (p Presence) Valid() bool {
	switch p {
	case PresenceOnline, PresenceAway, PresenceBusy, PresenceInvisible:
		return true
	}
	return false
}

// Identity is the verified user record handed over by the identity provider.
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarRef   string `json:"avatarRef,omitempty"`
	Role        string `json:"role,omitempty"`
}

// CursorState is the last reported cursor position of a session.
type CursorState struct {
	RoomID string  `json:"roomId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Session is the server-side record of one authenticated connection.
// At most one live session exists per user; a new authentication for the
// same user supersedes the prior one.
type Session struct {
	UserID       string          `json:"userId"`
	ConnectionID string          `json:"connectionId"`
	DisplayName  string          `json:"displayName"`
	AvatarRef    string          `json:"avatarRef,omitempty"`
	Role         string          `json:"role,omitempty"`
	ConnectedAt  time.Time       `json:"connectedAt"`
	LastActiveAt time.Time       `json:"lastActiveAt"`
	Presence     Presence        `json:"presence"`
	Rooms        map[string]bool `json:"-"`
	TypingByRoom map[string]bool `json:"-"`
	Cursor       *CursorState    `json:"-"`
}

// Info returns the broadcastable view of the session.
func (s *Session) Info() UserInfo {
	return UserInfo{
		UserID:      s.UserID,
		DisplayName: s.DisplayName,
		AvatarRef:   s.AvatarRef,
		Role:        s.Role,
		Presence:    s.Presence,
	}
}

// Clone returns a point-in-time copy safe to hand out of the registry.
func (s *Session) Clone() Session {
	c := *s
	c.Rooms = make(map[string]bool, len(s.Rooms))
	for k, v := range s.Rooms {
		c.Rooms[k] = v
	}
	c.TypingByRoom = make(map[string]bool, len(s.TypingByRoom))
	for k, v := range s.TypingByRoom {
		c.TypingByRoom[k] = v
	}
	if s.Cursor != nil {
		cur := *s.Cursor
		c.Cursor = &cur
	}
	return c
}

// UserInfo is the public slice of a session used in snapshots and broadcasts.
type UserInfo struct {
	UserID      string   `json:"userId"`
	DisplayName string   `json:"displayName"`
	AvatarRef   string   `json:"avatarRef,omitempty"`
	Role        string   `json:"role,omitempty"`
	Presence    Presence `json:"presence"`
}
