package websocket

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub maintains the set of connected clients and their chat room memberships
type Hub struct {
	// All connected clients
	clients map[*Client]bool

	// Clients organized by chat ID
	rooms map[int64]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients and rooms
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and disconnects
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	for chatID := range client.rooms {
		h.removeFromRoom(client, chatID)
	}

	delete(h.clients, client)
	close(client.send)

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client disconnected")
}

// JoinRoom adds a client to a chat room
func (h *Hub) JoinRoom(client *Client, chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[*Client]bool)
	}
	h.rooms[chatID][client] = true
	client.rooms[chatID] = true

	h.logger.Debug().
		Int64("chatID", chatID).
		Int64("userID", client.userID).
		Msg("Client joined chat room")
}

// LeaveRoom removes a client from a chat room
func (h *Hub) LeaveRoom(client *Client, chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(client, chatID)
}

// removeFromRoom must be called with the mutex held
func (h *Hub) removeFromRoom(client *Client, chatID int64) {
	if room, ok := h.rooms[chatID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, chatID)
		}
	}
	delete(client.rooms, chatID)
}

// InRoom reports whether a client has joined a chat room
func (h *Hub) InRoom(client *Client, chatID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return client.rooms[chatID]
}

// BroadcastToRoom sends a payload to every client in a chat room. A nil
// exclude broadcasts to all members.
func (h *Hub) BroadcastToRoom(chatID int64, data []byte, exclude *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[chatID]
	if !ok {
		return
	}

	for client := range room {
		if client == exclude {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Slow client, drop the connection
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// RoomCount returns the number of clients in a chat room
func (h *Hub) RoomCount(chatID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[chatID])
}
