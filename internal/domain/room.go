package domain

import "time"

type RoomKind string

const (
	RoomKindCampaign  RoomKind = "campaign"
	RoomKindJourney   RoomKind = "journey"
	RoomKindContent   RoomKind = "content"
	RoomKindWorkspace RoomKind = "workspace"
	RoomKindApproval  RoomKind = "approval"
)

func (k RoomKind) Valid() bool {
	switch k {
	case RoomKindCampaign, RoomKindJourney, RoomKindContent, RoomKindWorkspace, RoomKindApproval:
		return true
	}
	return false
}

// ApprovalRoomID is the conventional room id for an approval request.
func ApprovalRoomID(requestID string) string {
	return "approval:" + requestID
}

// Room is a logical broadcast channel scoping membership and history to one
// business object. Non-workspace rooms are deleted once their last member
// leaves; workspace rooms persist regardless of membership.
type Room struct {
	ID             string                 `json:"roomId"`
	Kind           RoomKind               `json:"kind"`
	TargetID       string                 `json:"targetId,omitempty"`
	Members        map[string]bool        `json:"-"`
	CreatedAt      time.Time              `json:"createdAt"`
	LastActivityAt time.Time              `json:"lastActivityAt"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// RoomSnapshot is the point-in-time view returned to a joining client:
// current membership plus the tail of the message history.
type RoomSnapshot struct {
	RoomID    string                 `json:"roomId"`
	Kind      RoomKind               `json:"kind"`
	TargetID  string                 `json:"targetId,omitempty"`
	Members   []UserInfo             `json:"members"`
	Messages  []Message              `json:"messages"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
