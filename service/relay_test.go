package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

func TestApprovalActionBroadcastsToApprovalRoom(t *testing.T) {
	svc, sender, relay, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")
	authenticate(t, svc, "conn-2", "user2")
	join(t, svc, "conn-2", domain.ApprovalRoomID("req-9"), domain.RoomKindApproval)

	require.NoError(t, svc.RelayApprovalAction("conn-1", domain.ApprovalActionPayload{
		RequestID: "req-9",
		Action:    "approve",
		StageID:   "stage-2",
		Comment:   "ship it",
	}))

	updates := sender.ofType("conn-2", domain.EventApprovalUpdate)
	require.Len(t, updates, 1)
	p := updates[0].Payload.(domain.ApprovalUpdatePayload)
	assert.Equal(t, "req-9", p.RequestID)
	assert.Equal(t, "approve", p.Action)
	assert.Equal(t, "user1", p.UserID)

	// The action also reached the external approval engine.
	relay.mu.Lock()
	defer relay.mu.Unlock()
	require.Len(t, relay.approvals, 1)
	assert.Equal(t, "stage-2", relay.approvals[0].StageID)
}

func TestApprovalActionWithoutWatchersStillRelays(t *testing.T) {
	svc, _, relay, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")

	require.NoError(t, svc.RelayApprovalAction("conn-1", domain.ApprovalActionPayload{
		RequestID: "req-unwatched",
		Action:    "reject",
	}))

	relay.mu.Lock()
	defer relay.mu.Unlock()
	require.Len(t, relay.approvals, 1)
	assert.Equal(t, "req-unwatched", relay.approvals[0].RequestID)
}

func TestApprovalActionValidation(t *testing.T) {
	svc, _, _, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")

	err := svc.RelayApprovalAction("conn-1", domain.ApprovalActionPayload{RequestID: "req-1"})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidEvent, err.(*domain.CollabError).Code)
}

func TestDocumentChangeRequiresMembership(t *testing.T) {
	svc, _, relay, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")

	err := svc.RelayDocumentChange("conn-1", domain.DocumentChangePayload{
		RoomID:     "content-1",
		DocumentID: "doc-1",
		Version:    3,
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotAMember, err.(*domain.CollabError).Code)

	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.Empty(t, relay.documents, "rejected change must not reach the document store")
}

func TestDocumentChangeBroadcastsAndRelays(t *testing.T) {
	svc, sender, relay, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")
	authenticate(t, svc, "conn-2", "user2")
	join(t, svc, "conn-1", "content-1", domain.RoomKindContent)
	join(t, svc, "conn-2", "content-1", domain.RoomKindContent)

	changes := json.RawMessage(`{"ops":[{"insert":"Q3 headline"}]}`)
	require.NoError(t, svc.RelayDocumentChange("conn-1", domain.DocumentChangePayload{
		RoomID:     "content-1",
		DocumentID: "doc-1",
		Changes:    changes,
		Version:    7,
	}))

	// The other member receives the tagged update; the sender does not.
	updates := sender.ofType("conn-2", domain.EventDocumentUpdate)
	require.Len(t, updates, 1)
	p := updates[0].Payload.(domain.DocumentUpdatePayload)
	assert.Equal(t, int64(7), p.Version)
	assert.Equal(t, "user1", p.UserID)
	assert.JSONEq(t, string(changes), string(p.Changes))
	assert.Empty(t, sender.ofType("conn-1", domain.EventDocumentUpdate))

	relay.mu.Lock()
	defer relay.mu.Unlock()
	require.Len(t, relay.documents, 1)
	assert.Equal(t, "doc-1", relay.documents[0].DocumentID)
}
