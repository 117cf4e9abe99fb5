package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

func TestSendRequiresMembership(t *testing.T) {
	svc, _, _, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")
	authenticate(t, svc, "conn-2", "user2")
	join(t, svc, "conn-1", "camp-1", domain.RoomKindCampaign)

	_, err := svc.SendMessage("conn-2", domain.SendMessagePayload{
		RoomID:  "camp-1",
		Kind:    domain.MessageKindChat,
		Content: "not yet",
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotAMember, err.(*domain.CollabError).Code)

	// After joining the same send succeeds.
	join(t, svc, "conn-2", "camp-1", domain.RoomKindCampaign)
	_, err = svc.SendMessage("conn-2", domain.SendMessagePayload{
		RoomID:  "camp-1",
		Kind:    domain.MessageKindChat,
		Content: "now a member",
	})
	assert.NoError(t, err)
}

func TestSendDeliversToAllMembers(t *testing.T) {
	svc, sender, _, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")
	authenticate(t, svc, "conn-2", "user2")
	join(t, svc, "conn-1", "camp-1", domain.RoomKindCampaign)
	join(t, svc, "conn-2", "camp-1", domain.RoomKindCampaign)

	msg, err := svc.SendMessage("conn-1", domain.SendMessagePayload{
		RoomID:   "camp-1",
		Kind:     domain.MessageKindChat,
		Content:  "hello",
		Metadata: map[string]interface{}{"channel": "email"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)

	for _, connID := range []string{"conn-1", "conn-2"} {
		delivered := sender.ofType(connID, domain.EventNewMessage)
		require.Len(t, delivered, 1, "member on %s should receive the message", connID)
		got := delivered[0].Payload.(domain.Message)
		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, "user1", got.SenderID)
		assert.Equal(t, "email", got.Metadata["channel"])
	}
}

func TestSendValidatesKind(t *testing.T) {
	svc, _, _, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")
	join(t, svc, "conn-1", "camp-1", domain.RoomKindCampaign)

	_, err := svc.SendMessage("conn-1", domain.SendMessagePayload{
		RoomID: "camp-1",
		Kind:   "carrier-pigeon",
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidEvent, err.(*domain.CollabError).Code)
}

func TestHistoryIsBounded(t *testing.T) {
	svc, _, _, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")
	join(t, svc, "conn-1", "camp-1", domain.RoomKindCampaign)

	const total = 1050
	for i := 0; i < total; i++ {
		_, err := svc.SendMessage("conn-1", domain.SendMessagePayload{
			RoomID:  "camp-1",
			Kind:    domain.MessageKindChat,
			Content: fmt.Sprintf("msg-%d", i),
		})
		require.NoError(t, err)
	}

	svc.mu.Lock()
	history := append([]domain.Message(nil), svc.rooms["camp-1"].history...)
	svc.mu.Unlock()

	require.Len(t, history, 1000)
	// Oldest entries were evicted first; the most recent 1000 remain in order.
	assert.Equal(t, "msg-50", history[0].Content)
	assert.Equal(t, fmt.Sprintf("msg-%d", total-1), history[999].Content)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
	}
}

func TestSnapshotReturnsHistoryTail(t *testing.T) {
	svc, _, _, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")
	authenticate(t, svc, "conn-2", "user2")
	join(t, svc, "conn-1", "camp-1", domain.RoomKindCampaign)

	for i := 0; i < 75; i++ {
		_, err := svc.SendMessage("conn-1", domain.SendMessagePayload{
			RoomID:  "camp-1",
			Kind:    domain.MessageKindChat,
			Content: fmt.Sprintf("msg-%d", i),
		})
		require.NoError(t, err)
	}

	snap := join(t, svc, "conn-2", "camp-1", domain.RoomKindCampaign)
	require.Len(t, snap.Messages, 50)
	assert.Equal(t, "msg-25", snap.Messages[0].Content)
	assert.Equal(t, "msg-74", snap.Messages[49].Content)
}

func TestSendUpdatesRoomActivity(t *testing.T) {
	svc, _, _, _ := setupService(t)
	authenticate(t, svc, "conn-1", "user1")
	join(t, svc, "conn-1", "camp-1", domain.RoomKindCampaign)

	svc.mu.Lock()
	before := svc.rooms["camp-1"].room.LastActivityAt
	svc.mu.Unlock()

	msg, err := svc.SendMessage("conn-1", domain.SendMessagePayload{
		RoomID:  "camp-1",
		Kind:    domain.MessageKindChat,
		Content: "tick",
	})
	require.NoError(t, err)

	svc.mu.Lock()
	after := svc.rooms["camp-1"].room.LastActivityAt
	svc.mu.Unlock()
	assert.Equal(t, msg.Timestamp, after)
	assert.False(t, after.Before(before))
}
