package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/auth"
)

const dispatchTimeout = 10 * time.Second

// EventHandler dispatches client events to the chat service and routes the
// results back through the hub
type EventHandler struct {
	hub         *Hub
	chatService *services.ChatService
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(
	hub *Hub,
	chatService *services.ChatService,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *EventHandler {
	return &EventHandler{
		hub:         hub,
		chatService: chatService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Handle dispatches a single client event. Every event except authenticate
// requires the connection to be bound to a user first.
func (h *EventHandler) Handle(client *Client, envelope *Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if envelope.Event == EventAuthenticate {
		h.handleAuthenticate(client, envelope.Data)
		return
	}

	if !client.Authenticated() {
		client.SendError("authentication required")
		return
	}

	switch envelope.Event {
	case EventInitiateChat:
		h.handleInitiateChat(ctx, client, envelope.Data)
	case EventJoinChat:
		h.handleJoinChat(ctx, client, envelope.Data)
	case EventLeaveChat:
		h.handleLeaveChat(client, envelope.Data)
	case EventSendMessage:
		h.handleSendMessage(ctx, client, envelope.Data)
	case EventMarkRead:
		h.handleMarkRead(ctx, client, envelope.Data)
	case EventTyping:
		h.handleTyping(client, envelope.Data, EventTyping)
	case EventStopTyping:
		h.handleTyping(client, envelope.Data, EventStopTyping)
	case EventGetLenderChats:
		h.handleGetLenderChats(ctx, client)
	default:
		client.SendError("unknown event: " + envelope.Event)
	}
}

func (h *EventHandler) handleAuthenticate(client *Client, data json.RawMessage) {
	var payload AuthenticatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("invalid authenticate payload")
		return
	}

	claims, err := h.jwtService.VerifyAccessToken(payload.Token)
	if err != nil {
		client.SendError("invalid or expired token")
		return
	}

	client.userID = claims.UserID
	client.SendEvent(EventAuthenticated, AuthenticatedPayload{UserID: claims.UserID})

	h.logger.Info().Int64("userID", claims.UserID).Msg("WebSocket client authenticated")
}

func (h *EventHandler) handleInitiateChat(ctx context.Context, client *Client, data json.RawMessage) {
	var payload InitiateChatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("invalid initiate_chat payload")
		return
	}

	chat, err := h.chatService.InitiateChat(ctx, client.userID, payload.CarID)
	if err != nil {
		h.sendServiceError(client, err)
		return
	}

	h.hub.JoinRoom(client, chat.ID)
	client.SendEvent(EventChatInitiated, chat)
}

func (h *EventHandler) handleJoinChat(ctx context.Context, client *Client, data json.RawMessage) {
	var payload ChatRefPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("invalid join_chat payload")
		return
	}

	chat, err := h.chatService.GetChat(ctx, payload.ChatID, client.userID)
	if err != nil {
		h.sendServiceError(client, err)
		return
	}

	h.hub.JoinRoom(client, chat.ID)

	history := chat.Messages
	if history == nil {
		history = []dto.MessageResponse{}
	}
	client.SendEvent(EventMessageHistory, history)
}

func (h *EventHandler) handleLeaveChat(client *Client, data json.RawMessage) {
	var payload ChatRefPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("invalid leave_chat payload")
		return
	}

	h.hub.LeaveRoom(client, payload.ChatID)
}

func (h *EventHandler) handleSendMessage(ctx context.Context, client *Client, data json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("invalid send_message payload")
		return
	}

	message, err := h.chatService.SendMessage(ctx, payload.ChatID, client.userID, payload.MessageText)
	if err != nil {
		h.sendServiceError(client, err)
		return
	}

	event, err := NewEvent(EventNewMessage, message)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal new_message event")
		return
	}
	h.hub.BroadcastToRoom(payload.ChatID, event, nil)
}

func (h *EventHandler) handleMarkRead(ctx context.Context, client *Client, data json.RawMessage) {
	var payload ChatRefPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("invalid mark_read payload")
		return
	}

	ids, err := h.chatService.MarkRead(ctx, payload.ChatID, client.userID)
	if err != nil {
		h.sendServiceError(client, err)
		return
	}

	if ids == nil {
		ids = []int64{}
	}

	// Broadcast even when nothing changed so clients can clear unread badges
	event, err := NewEvent(EventMessagesRead, MessagesReadPayload{
		ChatID:     payload.ChatID,
		ReadBy:     client.userID,
		MessageIDs: ids,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal messages_read event")
		return
	}
	h.hub.BroadcastToRoom(payload.ChatID, event, nil)
}

// handleTyping relays typing indicators to the other room members without
// touching the database. Only clients already in the room may relay.
func (h *EventHandler) handleTyping(client *Client, data json.RawMessage, eventName string) {
	var payload ChatRefPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("invalid " + eventName + " payload")
		return
	}

	if !h.hub.InRoom(client, payload.ChatID) {
		client.SendError("join the chat before sending typing events")
		return
	}

	event, err := NewEvent(eventName, TypingPayload{ChatID: payload.ChatID, UserID: client.userID})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal typing event")
		return
	}
	h.hub.BroadcastToRoom(payload.ChatID, event, client)
}

func (h *EventHandler) handleGetLenderChats(ctx context.Context, client *Client) {
	chats, err := h.chatService.GetLenderChats(ctx, client.userID)
	if err != nil {
		h.sendServiceError(client, err)
		return
	}

	client.SendEvent(EventLenderChats, LenderChatsPayload{Chats: chats})
}

func (h *EventHandler) sendServiceError(client *Client, err error) {
	switch {
	case errors.Is(err, apperrors.ErrChatNotFound),
		errors.Is(err, apperrors.ErrCarNotFound):
		client.SendError(err.Error())
	case errors.Is(err, apperrors.ErrPermissionDenied):
		client.SendError("you are not a participant of this chat")
	case errors.Is(err, apperrors.ErrBadRequest):
		client.SendError(err.Error())
	default:
		h.logger.Error().Err(err).Int64("userID", client.userID).Msg("Chat event failed")
		client.SendError("something went wrong")
	}
}
