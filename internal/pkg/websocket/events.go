package websocket

import (
	"encoding/json"

	"github.com/eren/driveshare/internal/app/models/dto"
)

// Client events
const (
	EventAuthenticate   = "authenticate"
	EventInitiateChat   = "initiate_chat"
	EventJoinChat       = "join_chat"
	EventLeaveChat      = "leave_chat"
	EventSendMessage    = "send_message"
	EventMarkRead       = "mark_read"
	EventTyping         = "typing"
	EventStopTyping     = "stop_typing"
	EventGetLenderChats = "get_lender_chats"
)

// Server events
const (
	EventAuthenticated  = "authenticated"
	EventChatInitiated  = "chat_initiated"
	EventMessageHistory = "message_history"
	EventNewMessage     = "new_message"
	EventMessagesRead   = "messages_read"
	EventLenderChats    = "lender_chats"
	EventChatError      = "chat_error"
)

// Envelope is the wire format of every websocket exchange: an event name and
// an event-specific payload
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEvent serializes a server event with its payload
func NewEvent(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// AuthenticatePayload carries the access token binding a connection to a user
type AuthenticatePayload struct {
	Token string `json:"token"`
}

// AuthenticatedPayload confirms a successful authentication
type AuthenticatedPayload struct {
	UserID int64 `json:"userId"`
}

// InitiateChatPayload opens a chat about a car
type InitiateChatPayload struct {
	CarID int64 `json:"carId"`
}

// ChatRefPayload references an existing chat
type ChatRefPayload struct {
	ChatID int64 `json:"chatId"`
}

// SendMessagePayload carries an outgoing chat message
type SendMessagePayload struct {
	ChatID      int64  `json:"chatId"`
	MessageText string `json:"messageText"`
}

// MessagesReadPayload notifies the room about read receipts
type MessagesReadPayload struct {
	ChatID     int64   `json:"chatId"`
	ReadBy     int64   `json:"readBy"`
	MessageIDs []int64 `json:"messageIds"`
}

// TypingPayload notifies the room that a participant is typing
type TypingPayload struct {
	ChatID int64 `json:"chatId"`
	UserID int64 `json:"userId"`
}

// LenderChatsPayload lists all chats on the lender's cars
type LenderChatsPayload struct {
	Chats []dto.ChatResponse `json:"chats"`
}

