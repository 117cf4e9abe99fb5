package ws

import (
	"net/http"

	gws "github.com/gorilla/websocket"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/port"
	"github.com/SphrGhfri/collabhub_golang_nats/internal/websocket"
	"github.com/SphrGhfri/collabhub_golang_nats/pkg/logger"
)

var upgrader = gws.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; the gateway in front restricts them.
	},
}

func HandleWebSocket(
	hub *websocket.Hub,
	collabService port.CollabService,
	logg logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logg.Errorf("[WS HANDLER] Upgrade error: %v", err)
			http.Error(w, "Failed to upgrade", http.StatusInternalServerError)
			return
		}

		client := websocket.NewConnection(conn, hub, collabService, logg)
		hub.Register(client)
		logg.Infof("[WS HANDLER] New connection %s from %s", client.ID, conn.RemoteAddr())

		go client.ReadPump()
		go client.WritePump()
	}
}
