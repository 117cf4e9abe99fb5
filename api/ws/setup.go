package ws

import (
	"context"
	"net/http"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/port"
	"github.com/SphrGhfri/collabhub_golang_nats/internal/websocket"
	"github.com/SphrGhfri/collabhub_golang_nats/pkg/logger"
)

type WSConfig struct {
	Hub           *websocket.Hub
	CollabService port.CollabService
	RootCtx       context.Context
}

func SetupWebSocketRoutes(cfg WSConfig) http.Handler {
	mux := http.NewServeMux()
	log := logger.FromContext(cfg.RootCtx).WithModule("websocket")
	mux.HandleFunc("/ws", HandleWebSocket(cfg.Hub, cfg.CollabService, log))
	return mux
}
