package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
	"github.com/SphrGhfri/collabhub_golang_nats/internal/port"
	"github.com/SphrGhfri/collabhub_golang_nats/pkg/logger"
)

const (
	// writeWait bounds each write so a wedged peer cannot pin the pump.
	writeWait = 10 * time.Second
	// pongWait is how long a peer may stay silent before the read fails.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Connection represents a single WebSocket connection to a client. Each
// connection runs two goroutines: ReadPump decodes inbound events and hands
// them to the collaboration service, WritePump drains the outbound queue.
type Connection struct {
	ID     string
	ws     *websocket.Conn
	send   chan domain.Event
	hub    *Hub
	svc    port.CollabService
	logger logger.Logger

	closeMu sync.RWMutex
	closed  bool
}

func NewConnection(ws *websocket.Conn, hub *Hub, svc port.CollabService, logg logger.Logger) *Connection {
	return &Connection{
		ID:     uuid.NewString(),
		ws:     ws,
		send:   make(chan domain.Event, 256),
		hub:    hub,
		svc:    svc,
		logger: logg,
	}
}

// ReadPump reads inbound frames until the transport fails, then unwinds the
// session synchronously before unregistering.
func (c *Connection) ReadPump() {
	defer func() {
		c.svc.Disconnect(c.ID, "connection closed")
		c.hub.Unregister(c)
	}()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debugf("Read error on connection %s: %v", c.ID, err)
			}
			return
		}
		c.dispatch(data)
	}
}

// WritePump delivers queued events until the queue closes, pinging the peer
// between deliveries to keep the read deadline alive.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(evt); err != nil {
				c.logger.Debugf("Write error on connection %s: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch validates one inbound frame against the closed event vocabulary
// and routes it. All failures are reported to this client only.
func (c *Connection) dispatch(data []byte) {
	var raw domain.RawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		c.sendError(domain.InvalidEventError("malformed event: " + err.Error()))
		return
	}

	switch raw.Type {
	case domain.EventAuthenticate:
		p, err := domain.DecodePayload[domain.AuthenticatePayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		ack, err := c.svc.Authenticate(c.ID, p)
		if err != nil {
			c.sendError(err)
			return
		}
		c.enqueue(domain.Event{Type: domain.EventAuthenticated, Payload: ack})

	case domain.EventJoinRoom:
		p, err := domain.DecodePayload[domain.JoinRoomPayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		snap, err := c.svc.JoinRoom(c.ID, p)
		if err != nil {
			c.sendError(err)
			return
		}
		c.enqueue(domain.Event{Type: domain.EventRoomJoined, Payload: snap})

	case domain.EventLeaveRoom:
		p, err := domain.DecodePayload[domain.LeaveRoomPayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		if err := c.svc.LeaveRoom(c.ID, p.RoomID); err != nil {
			c.sendError(err)
		}

	case domain.EventSendMessage:
		p, err := domain.DecodePayload[domain.SendMessagePayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		if _, err := c.svc.SendMessage(c.ID, p); err != nil {
			c.sendError(err)
		}

	case domain.EventTypingStart, domain.EventTypingStop:
		p, err := domain.DecodePayload[domain.TypingPayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		if err := c.svc.SetTyping(c.ID, p.RoomID, raw.Type == domain.EventTypingStart); err != nil {
			c.sendError(err)
		}

	case domain.EventCursorMove:
		p, err := domain.DecodePayload[domain.CursorMovePayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		if err := c.svc.MoveCursor(c.ID, p); err != nil {
			c.sendError(err)
		}

	case domain.EventPresenceUpdate:
		p, err := domain.DecodePayload[domain.PresencePayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		if err := c.svc.SetPresence(c.ID, p.Presence); err != nil {
			c.sendError(err)
		}

	case domain.EventApprovalAction:
		p, err := domain.DecodePayload[domain.ApprovalActionPayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		if err := c.svc.RelayApprovalAction(c.ID, p); err != nil {
			c.sendError(err)
		}

	case domain.EventDocumentChange:
		p, err := domain.DecodePayload[domain.DocumentChangePayload](raw.Payload)
		if err != nil {
			c.sendError(err)
			return
		}
		if err := c.svc.RelayDocumentChange(c.ID, p); err != nil {
			c.sendError(err)
		}

	case domain.EventHeartbeat:
		if err := c.svc.Heartbeat(c.ID); err != nil {
			c.sendError(err)
			return
		}
		c.enqueue(domain.Event{
			Type:    domain.EventHeartbeatAck,
			Payload: domain.HeartbeatAckPayload{Timestamp: time.Now()},
		})

	default:
		c.sendError(domain.InvalidEventError("unknown event type: " + string(raw.Type)))
	}
}

// enqueue hands an event to the write pump without blocking. Events for a
// closed connection are dropped.
func (c *Connection) enqueue(evt domain.Event) bool {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- evt:
		return true
	default:
		return false
	}
}

func (c *Connection) sendError(err error) {
	var ce *domain.CollabError
	if !errors.As(err, &ce) {
		ce = domain.InvalidEventError(err.Error())
	}
	c.enqueue(domain.Event{Type: domain.EventError, Payload: ce})
}

// close shuts the outbound queue exactly once; the write pump then closes
// the underlying socket, which unblocks the read pump.
func (c *Connection) close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
