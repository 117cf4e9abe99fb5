package port

import (
	"context"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

// CollabService is the single authority over sessions, rooms, histories and
// presence. Every transport event lands here, keyed by the connection id
// that carried it.
type CollabService interface {
	Authenticate(connID string, p domain.AuthenticatePayload) (*domain.AuthenticatedPayload, error)
	GetSession(connID string) (domain.Session, bool)
	Disconnect(connID, reason string)

	JoinRoom(connID string, p domain.JoinRoomPayload) (*domain.RoomSnapshot, error)
	LeaveRoom(connID, roomID string) error

	SendMessage(connID string, p domain.SendMessagePayload) (*domain.Message, error)

	SetPresence(connID string, presence domain.Presence) error
	SetTyping(connID, roomID string, isTyping bool) error
	MoveCursor(connID string, p domain.CursorMovePayload) error

	RelayApprovalAction(connID string, p domain.ApprovalActionPayload) error
	RelayDocumentChange(connID string, p domain.DocumentChangePayload) error

	Heartbeat(connID string) error

	RunSweeper(ctx context.Context)
}

// Sender delivers an event to one live connection. Delivery is best-effort:
// a full outbound queue or unknown connection returns false and the event
// is dropped.
type Sender interface {
	Send(connID string, evt domain.Event) bool
	CloseConnection(connID string)
}

// IdentityVerifier resolves an authenticate payload to the identity the
// external provider verified.
type IdentityVerifier interface {
	Verify(p domain.AuthenticatePayload) (domain.Identity, error)
}

// EngineRelay is the out-of-band leg toward the external approval-workflow
// engine and document store. This layer only forwards; it owns none of
// their state.
type EngineRelay interface {
	PublishApprovalAction(p domain.ApprovalUpdatePayload) error
	PublishDocumentChange(p domain.DocumentUpdatePayload) error
}

// PresenceRoster mirrors the set of online users for consumers outside this
// process. All calls are best-effort.
type PresenceRoster interface {
	AddOnline(userID string) error
	RemoveOnline(userID string) error
}
