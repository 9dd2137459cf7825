package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/auth"
)

type stubChatRepo struct {
	chat *models.Chat
}

func (s *stubChatRepo) GetOrCreate(ctx context.Context, carID, userID, lenderID int64) (*models.Chat, error) {
	return s.chat, nil
}

func (s *stubChatRepo) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	if s.chat == nil || s.chat.ID != id {
		return nil, apperrors.ErrChatNotFound
	}
	return s.chat, nil
}

func (s *stubChatRepo) GetByLenderID(ctx context.Context, lenderID int64) ([]*models.Chat, error) {
	return nil, nil
}

type stubMessageRepo struct {
	history []*models.Message
	created []*models.Message
	readIDs []int64
}

func (s *stubMessageRepo) Create(ctx context.Context, message *models.Message) error {
	message.ID = int64(len(s.created) + 1)
	message.CreatedAt = time.Now()
	s.created = append(s.created, message)
	return nil
}

func (s *stubMessageRepo) GetLatestByChatID(ctx context.Context, chatID int64, limit int) ([]*models.Message, error) {
	return s.history, nil
}

func (s *stubMessageRepo) MarkRead(ctx context.Context, chatID, readerID int64) ([]int64, error) {
	return s.readIDs, nil
}

type stubCarRepo struct{}

func (s *stubCarRepo) Create(ctx context.Context, car *models.Car) error { return nil }
func (s *stubCarRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	return nil, apperrors.ErrCarNotFound
}
func (s *stubCarRepo) GetAll(ctx context.Context, filter dto.CarFilter, page, size int) ([]*models.Car, int64, error) {
	return nil, 0, nil
}
func (s *stubCarRepo) Update(ctx context.Context, car *models.Car) error { return nil }
func (s *stubCarRepo) Delete(ctx context.Context, id int64) error        { return nil }

func newEventHarness(messageRepo *stubMessageRepo) (*EventHandler, *Hub) {
	chatRepo := &stubChatRepo{chat: &models.Chat{ID: 1, CarID: 1, UserID: 2, LenderID: 3}}
	chatService := services.NewChatService(chatRepo, messageRepo, &stubCarRepo{}, zerolog.Nop())
	jwtService := auth.NewJWTService(auth.JWTConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "driveshare-test",
	})
	hub := NewHub(zerolog.Nop())
	return NewEventHandler(hub, chatService, jwtService, zerolog.Nop()), hub
}

func nextEvent(t *testing.T, client *Client) Envelope {
	t.Helper()
	select {
	case raw := <-client.send:
		var envelope Envelope
		require.NoError(t, json.Unmarshal(raw, &envelope))
		return envelope
	default:
		t.Fatal("expected a queued event")
		return Envelope{}
	}
}

func TestSendMessageEventCarriesMessageText(t *testing.T) {
	messageRepo := &stubMessageRepo{}
	handler, hub := newEventHarness(messageRepo)
	client := newTestClient(hub, 2)
	hub.JoinRoom(client, 1)

	handler.Handle(client, &Envelope{
		Event: EventSendMessage,
		Data:  json.RawMessage(`{"chatId":1,"messageText":"hello there"}`),
	})

	require.Len(t, messageRepo.created, 1)
	assert.Equal(t, "hello there", messageRepo.created[0].MessageText)

	envelope := nextEvent(t, client)
	assert.Equal(t, EventNewMessage, envelope.Event)
	assert.Contains(t, string(envelope.Data), `"messageText":"hello there"`)
}

func TestMarkReadBroadcastsReadBy(t *testing.T) {
	messageRepo := &stubMessageRepo{readIDs: []int64{4, 5}}
	handler, hub := newEventHarness(messageRepo)
	client := newTestClient(hub, 2)
	hub.JoinRoom(client, 1)

	handler.Handle(client, &Envelope{
		Event: EventMarkRead,
		Data:  json.RawMessage(`{"chatId":1}`),
	})

	envelope := nextEvent(t, client)
	assert.Equal(t, EventMessagesRead, envelope.Event)

	var payload MessagesReadPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, int64(2), payload.ReadBy)
	assert.Equal(t, []int64{4, 5}, payload.MessageIDs)
	assert.Contains(t, string(envelope.Data), `"readBy":2`)
}

func TestMarkReadBroadcastsWhenNothingChanged(t *testing.T) {
	messageRepo := &stubMessageRepo{}
	handler, hub := newEventHarness(messageRepo)
	client := newTestClient(hub, 2)
	hub.JoinRoom(client, 1)

	handler.Handle(client, &Envelope{
		Event: EventMarkRead,
		Data:  json.RawMessage(`{"chatId":1}`),
	})

	envelope := nextEvent(t, client)
	assert.Equal(t, EventMessagesRead, envelope.Event)
	assert.Contains(t, string(envelope.Data), `"messageIds":[]`)
}

func TestJoinChatEmitsMessageArray(t *testing.T) {
	messageRepo := &stubMessageRepo{history: []*models.Message{
		{ID: 1, ChatID: 1, SenderID: 2, MessageText: "hi", Status: models.MessageSent},
		{ID: 2, ChatID: 1, SenderID: 3, MessageText: "hello", Status: models.MessageSent},
	}}
	handler, hub := newEventHarness(messageRepo)
	client := newTestClient(hub, 2)

	handler.Handle(client, &Envelope{
		Event: EventJoinChat,
		Data:  json.RawMessage(`{"chatId":1}`),
	})

	envelope := nextEvent(t, client)
	assert.Equal(t, EventMessageHistory, envelope.Event)

	var history []dto.MessageResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].MessageText)
	assert.True(t, hub.InRoom(client, 1))
}

func TestJoinChatEmptyHistoryIsEmptyArray(t *testing.T) {
	handler, hub := newEventHarness(&stubMessageRepo{})
	client := newTestClient(hub, 2)

	handler.Handle(client, &Envelope{
		Event: EventJoinChat,
		Data:  json.RawMessage(`{"chatId":1}`),
	})

	envelope := nextEvent(t, client)
	assert.Equal(t, EventMessageHistory, envelope.Event)
	assert.Equal(t, "[]", string(envelope.Data))
}

func TestChatErrorPayloadIsString(t *testing.T) {
	_, hub := newEventHarness(&stubMessageRepo{})
	client := newTestClient(hub, 2)

	client.SendError("something went wrong")

	envelope := nextEvent(t, client)
	assert.Equal(t, EventChatError, envelope.Event)
	assert.Equal(t, `"something went wrong"`, string(envelope.Data))
}
