package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/mehular0ra/pingme/pkg/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		// In production, specify allowed origins
		return true
	},
}

// HandleWS upgrades the connection and hands it to the hub. The session is
// anonymous until it sends a register event with its user code.
func HandleWS(h *hub.Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		client := hub.NewClient(h, conn)
		h.Register <- client

		go client.WritePump()
		go client.ReadPump()

		logger.Debug("WebSocket connection established", "remote", r.RemoteAddr)
	}
}
