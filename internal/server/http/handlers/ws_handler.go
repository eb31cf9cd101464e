package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/okonev/orderdesk/internal/notifier"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect cross-origin from the frontend host.
	CheckOrigin: func(*http.Request) bool { return true },
}

// WSHandler upgrades authenticated clients onto the realtime hub.
type WSHandler struct {
	hub    *notifier.Hub
	logger *slog.Logger
}

// NewWSHandler constructs WSHandler.
func NewWSHandler(hub *notifier.Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Serve handles GET /api/ws.
func (h *WSHandler) Serve(c *gin.Context) {
	actor := CurrentActor(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	notifier.NewClient(h.hub, conn, actor.Username).Serve()
}
