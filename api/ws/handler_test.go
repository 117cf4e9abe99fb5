package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SphrGhfri/collabhub_golang_nats/config"
	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
	"github.com/SphrGhfri/collabhub_golang_nats/internal/websocket"
	"github.com/SphrGhfri/collabhub_golang_nats/pkg/logger"
	"github.com/SphrGhfri/collabhub_golang_nats/service"
)

// In-process stand-ins for the external collaborators so the tests run
// without NATS or Redis.

type stubVerifier struct{}

func (stubVerifier) Verify(p domain.AuthenticatePayload) (domain.Identity, error) {
	if p.UserID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return domain.Identity{UserID: p.UserID, DisplayName: p.DisplayName, Role: p.Role}, nil
}

type noopRelay struct{}

func (noopRelay) PublishApprovalAction(domain.ApprovalUpdatePayload) error { return nil }
func (noopRelay) PublishDocumentChange(domain.DocumentUpdatePayload) error { return nil }

type noopRoster struct{}

func (noopRoster) AddOnline(string) error    { return nil }
func (noopRoster) RemoveOnline(string) error { return nil }

type testClient struct {
	conn *gws.Conn
	t    *testing.T
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{HistoryLimit: 1000, SnapshotLimit: 50, SweepIntervalSec: 300, IdleTimeoutSec: 1800}
	baseLogger := logger.NewLogger("error", "")
	ctx := logger.NewContext(context.Background(), baseLogger)

	hub := websocket.NewHub(baseLogger)
	collabService := service.NewCollabService(cfg, hub, stubVerifier{}, noopRelay{}, noopRoster{}, baseLogger)

	server := httptest.NewServer(SetupWebSocketRoutes(WSConfig{
		Hub:           hub,
		CollabService: collabService,
		RootCtx:       ctx,
	}))

	t.Cleanup(func() {
		server.Close()
		hub.Close()
	})
	return server
}

func connectClient(t *testing.T, server *httptest.Server) *testClient {
	t.Helper()
	wsURL := "ws" + server.URL[4:] + "/ws"
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{conn: conn, t: t}
}

func (c *testClient) send(eventType domain.EventType, payload interface{}) {
	require.NoError(c.t, c.conn.WriteJSON(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}))
}

func (c *testClient) receive() domain.RawEvent {
	var evt domain.RawEvent
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(c.t, c.conn.ReadJSON(&evt))
	return evt
}

// receiveType skips events until one of the wanted type arrives.
func (c *testClient) receiveType(want domain.EventType) domain.RawEvent {
	for i := 0; i < 10; i++ {
		evt := c.receive()
		if evt.Type == want {
			return evt
		}
	}
	c.t.Fatalf("did not receive %s", want)
	return domain.RawEvent{}
}

func (c *testClient) authenticate(userID string) {
	c.send(domain.EventAuthenticate, map[string]string{
		"userId":      userID,
		"displayName": "name-" + userID,
	})
	evt := c.receiveType(domain.EventAuthenticated)
	var ack domain.AuthenticatedPayload
	require.NoError(c.t, json.Unmarshal(evt.Payload, &ack))
	require.Equal(c.t, userID, ack.Session.UserID)
}

func TestAuthenticateAndJoinOverWebSocket(t *testing.T) {
	server := setupServer(t)
	client := connectClient(t, server)

	client.authenticate("user1")

	client.send(domain.EventJoinRoom, map[string]string{"roomId": "camp-1", "kind": "campaign"})
	evt := client.receiveType(domain.EventRoomJoined)

	var snap domain.RoomSnapshot
	require.NoError(t, json.Unmarshal(evt.Payload, &snap))
	assert.Equal(t, "camp-1", snap.RoomID)
	require.Len(t, snap.Members, 1)
	assert.Equal(t, "user1", snap.Members[0].UserID)
	assert.Empty(t, snap.Messages)
}

func TestChatBetweenTwoClients(t *testing.T) {
	server := setupServer(t)

	alice := connectClient(t, server)
	alice.authenticate("alice")
	alice.send(domain.EventJoinRoom, map[string]string{"roomId": "camp-1", "kind": "campaign"})
	alice.receiveType(domain.EventRoomJoined)

	bob := connectClient(t, server)
	bob.authenticate("bob")
	bob.send(domain.EventJoinRoom, map[string]string{"roomId": "camp-1", "kind": "campaign"})
	bob.receiveType(domain.EventRoomJoined)

	// Alice sees bob join.
	alice.receiveType(domain.EventUserJoinedRoom)

	alice.send(domain.EventSendMessage, map[string]string{
		"roomId":  "camp-1",
		"kind":    "chat",
		"content": "hi bob",
	})

	evt := bob.receiveType(domain.EventNewMessage)
	var msg domain.Message
	require.NoError(t, json.Unmarshal(evt.Payload, &msg))
	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "hi bob", msg.Content)

	// Typing indicator reaches bob only.
	alice.send(domain.EventTypingStart, map[string]string{"roomId": "camp-1"})
	typing := bob.receiveType(domain.EventTypingIndicator)
	var indicator domain.TypingIndicatorPayload
	require.NoError(t, json.Unmarshal(typing.Payload, &indicator))
	assert.True(t, indicator.IsTyping)
	assert.Equal(t, "alice", indicator.UserID)
}

func TestUnauthenticatedActionRejected(t *testing.T) {
	server := setupServer(t)
	client := connectClient(t, server)

	client.send(domain.EventSendMessage, map[string]string{
		"roomId":  "camp-1",
		"kind":    "chat",
		"content": "sneaky",
	})

	evt := client.receiveType(domain.EventError)
	var ce domain.CollabError
	require.NoError(t, json.Unmarshal(evt.Payload, &ce))
	assert.Equal(t, domain.CodeUnauthenticated, ce.Code)
}

func TestUnknownEventRejected(t *testing.T) {
	server := setupServer(t)
	client := connectClient(t, server)
	client.authenticate("user1")

	client.send("time_travel", nil)

	evt := client.receiveType(domain.EventError)
	var ce domain.CollabError
	require.NoError(t, json.Unmarshal(evt.Payload, &ce))
	assert.Equal(t, domain.CodeInvalidEvent, ce.Code)
}

func TestHeartbeatAck(t *testing.T) {
	server := setupServer(t)
	client := connectClient(t, server)
	client.authenticate("user1")

	client.send(domain.EventHeartbeat, nil)
	client.receiveType(domain.EventHeartbeatAck)
}

func TestSupersededConnectionIsEvicted(t *testing.T) {
	server := setupServer(t)

	first := connectClient(t, server)
	first.authenticate("user1")

	second := connectClient(t, server)
	second.authenticate("user1")

	evt := first.receiveType(domain.EventSessionEvicted)
	var p domain.SessionEvictedPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.NotEmpty(t, p.Reason)

	// The superseded transport closes shortly after the signal.
	first.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := first.conn.ReadMessage(); err != nil {
			break
		}
	}

	// The new connection is live.
	second.send(domain.EventHeartbeat, nil)
	second.receiveType(domain.EventHeartbeatAck)
}
