package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The connection carries no credentials until the authenticate event,
	// so cross-origin upgrades are harmless.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP connections to websocket chat sessions
type Handler struct {
	hub        *Hub
	dispatcher *EventHandler
	logger     zerolog.Logger
}

// NewHandler creates a new websocket Handler
func NewHandler(hub *Hub, dispatcher *EventHandler, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleConnection upgrades the HTTP connection. The client must send an
// authenticate event before any chat event is accepted.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		rooms:      make(map[int64]bool),
		dispatcher: h.dispatcher,
		logger:     h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().Str("remoteAddr", conn.RemoteAddr().String()).Msg("WebSocket connection established")
}
