package websocket

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	// Zero until the authenticate event binds the connection to a user.
	// Written and read only from the readPump goroutine.
	userID int64

	// Chat rooms the client has joined, guarded by the hub mutex
	rooms map[int64]bool

	dispatcher *EventHandler

	logger zerolog.Logger
}

// Authenticated reports whether the connection has been bound to a user
func (c *Client) Authenticated() bool {
	return c.userID > 0
}

// SendEvent queues a server event for delivery to this client
func (c *Client) SendEvent(event string, payload interface{}) {
	data, err := NewEvent(event, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal websocket event")
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn().Int64("userID", c.userID).Msg("Dropping event for slow client")
	}
}

// SendError queues a chat_error event. The payload is the bare message string.
func (c *Client) SendError(message string) {
	c.SendEvent(EventChatError, message)
}

// readPump pumps messages from the websocket connection to the dispatcher
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().Int64("userID", c.userID).Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Int64("userID", c.userID).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Int64("userID", c.userID).Msg("WebSocket read error")
			}
			break
		}

		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))

		var envelope Envelope
		if err := json.Unmarshal(message, &envelope); err != nil {
			c.logger.Debug().Err(err).Str("message", string(message)).Msg("Failed to unmarshal client event")
			c.SendError("invalid event format")
			continue
		}

		c.dispatcher.Handle(c, &envelope)
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued events
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
