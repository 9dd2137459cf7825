package websocket

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID int64) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, 8),
		userID: userID,
		rooms:  make(map[int64]bool),
		logger: zerolog.Nop(),
	}
}

func TestJoinAndLeaveRoom(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient(hub, 1)

	assert.False(t, hub.InRoom(client, 42))

	hub.JoinRoom(client, 42)
	assert.True(t, hub.InRoom(client, 42))
	assert.Equal(t, 1, hub.RoomCount(42))

	hub.LeaveRoom(client, 42)
	assert.False(t, hub.InRoom(client, 42))
	assert.Equal(t, 0, hub.RoomCount(42))

	// Empty rooms are pruned from the map
	_, exists := hub.rooms[42]
	assert.False(t, exists)
}

func TestLeaveRoomNeverJoinedIsNoop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient(hub, 1)

	hub.LeaveRoom(client, 7)
	assert.False(t, hub.InRoom(client, 7))
}

func TestBroadcastToRoomExcludesSender(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	sender := newTestClient(hub, 1)
	other := newTestClient(hub, 2)
	outsider := newTestClient(hub, 3)

	hub.JoinRoom(sender, 42)
	hub.JoinRoom(other, 42)
	hub.JoinRoom(outsider, 99)

	hub.BroadcastToRoom(42, []byte("hello"), sender)

	select {
	case msg := <-other.send:
		assert.Equal(t, "hello", string(msg))
	default:
		t.Fatal("expected a message for the other room member")
	}

	assert.Empty(t, sender.send)
	assert.Empty(t, outsider.send)
}

func TestBroadcastToUnknownRoomIsNoop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient(hub, 1)
	hub.JoinRoom(client, 1)

	hub.BroadcastToRoom(2, []byte("hello"), nil)
	assert.Empty(t, client.send)
}

func TestBroadcastReachesAllMembersWithoutExclude(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	first := newTestClient(hub, 1)
	second := newTestClient(hub, 2)

	hub.JoinRoom(first, 5)
	hub.JoinRoom(second, 5)

	hub.BroadcastToRoom(5, []byte("ping"), nil)

	require.Len(t, first.send, 1)
	require.Len(t, second.send, 1)
}
