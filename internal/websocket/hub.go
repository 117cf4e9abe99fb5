package websocket

import (
	"sync"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
	"github.com/SphrGhfri/collabhub_golang_nats/pkg/logger"
)

// Hub tracks live transport connections by connection id and delivers
// outbound events to them. Delivery never blocks: a peer whose queue is
// full simply misses the event.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	logger logger.Logger
}

func NewHub(logg logger.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]*Connection),
		logger: logg,
	}
}

// Register adds a connection to the hub before its pumps start, so events
// addressed to it are deliverable from the first inbound frame.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn.ID] = conn
}

// Unregister removes a connection and closes its outbound queue. The queue
// is closed under the write lock so it can never race an in-flight Send.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.conns[conn.ID]; exists {
		delete(h.conns, conn.ID)
		h.logger.Debugf("Connection %s unregistered", conn.ID)
	}
	conn.close()
}

// Send queues an event for one connection. Returns false when the
// connection is unknown or its queue is full; the event is dropped.
func (h *Hub) Send(connID string, evt domain.Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn := h.conns[connID]
	if conn == nil {
		return false
	}
	return conn.enqueue(evt)
}

// CloseConnection force-closes one connection, used when a session is
// superseded or swept.
func (h *Hub) CloseConnection(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn := h.conns[connID]; conn != nil {
		delete(h.conns, connID)
		conn.close()
		h.logger.Infof("Connection %s force-closed", connID)
	}
}

// Close shuts down every remaining connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.conns {
		delete(h.conns, id)
		conn.close()
	}
}
