package services_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/pkg/apperrors"
)

type fakeChatRepo struct {
	chats  map[int64]*models.Chat
	nextID int64
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[int64]*models.Chat), nextID: 1}
}

func (f *fakeChatRepo) GetOrCreate(ctx context.Context, carID, userID, lenderID int64) (*models.Chat, error) {
	for _, chat := range f.chats {
		if chat.CarID == carID && chat.UserID == userID {
			return chat, nil
		}
	}
	chat := &models.Chat{ID: f.nextID, CarID: carID, UserID: userID, LenderID: lenderID}
	f.chats[chat.ID] = chat
	f.nextID++
	return chat, nil
}

func (f *fakeChatRepo) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, apperrors.ErrChatNotFound
	}
	return chat, nil
}

func (f *fakeChatRepo) GetByLenderID(ctx context.Context, lenderID int64) ([]*models.Chat, error) {
	var out []*models.Chat
	for _, chat := range f.chats {
		if chat.LenderID == lenderID {
			out = append(out, chat)
		}
	}
	return out, nil
}

type fakeMessageRepo struct {
	messages []*models.Message
	nextID   int64
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *models.Message) error {
	message.ID = f.nextID
	f.nextID++
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) GetLatestByChatID(ctx context.Context, chatID int64, limit int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, chatID, readerID int64) ([]int64, error) {
	var ids []int64
	for _, m := range f.messages {
		if m.ChatID == chatID && m.SenderID != readerID && m.Status == models.MessageSent {
			m.Status = models.MessageRead
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

type fakeCarRepo struct {
	cars map[int64]*models.Car
}

func newFakeCarRepo(cars ...*models.Car) *fakeCarRepo {
	repo := &fakeCarRepo{cars: make(map[int64]*models.Car)}
	for _, car := range cars {
		repo.cars[car.ID] = car
	}
	return repo
}

func (f *fakeCarRepo) Create(ctx context.Context, car *models.Car) error {
	f.cars[car.ID] = car
	return nil
}

func (f *fakeCarRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	car, ok := f.cars[id]
	if !ok {
		return nil, apperrors.ErrCarNotFound
	}
	return car, nil
}

func (f *fakeCarRepo) GetAll(ctx context.Context, filter dto.CarFilter, page, size int) ([]*models.Car, int64, error) {
	return nil, 0, nil
}

func (f *fakeCarRepo) Update(ctx context.Context, car *models.Car) error { return nil }
func (f *fakeCarRepo) Delete(ctx context.Context, id int64) error        { return nil }

func newChatService(chatRepo *fakeChatRepo, messageRepo *fakeMessageRepo, carRepo *fakeCarRepo) *services.ChatService {
	return services.NewChatService(chatRepo, messageRepo, carRepo, zerolog.Nop())
}

func TestInitiateChatIsIdempotent(t *testing.T) {
	carRepo := newFakeCarRepo(&models.Car{ID: 10, LenderID: 2})
	svc := newChatService(newFakeChatRepo(), newFakeMessageRepo(), carRepo)

	first, err := svc.InitiateChat(context.Background(), 1, 10)
	require.NoError(t, err)
	second, err := svc.InitiateChat(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(2), first.LenderID)
}

func TestInitiateChatOwnCarRejected(t *testing.T) {
	carRepo := newFakeCarRepo(&models.Car{ID: 10, LenderID: 2})
	svc := newChatService(newFakeChatRepo(), newFakeMessageRepo(), carRepo)

	_, err := svc.InitiateChat(context.Background(), 2, 10)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestInitiateChatMissingCar(t *testing.T) {
	svc := newChatService(newFakeChatRepo(), newFakeMessageRepo(), newFakeCarRepo())

	_, err := svc.InitiateChat(context.Background(), 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrCarNotFound)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	carRepo := newFakeCarRepo(&models.Car{ID: 10, LenderID: 2})
	chatRepo := newFakeChatRepo()
	messageRepo := newFakeMessageRepo()
	svc := newChatService(chatRepo, messageRepo, carRepo)

	chat, err := svc.InitiateChat(context.Background(), 1, 10)
	require.NoError(t, err)

	// An outsider cannot write into the chat.
	_, err = svc.SendMessage(context.Background(), chat.ID, 99, "hello")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, messageRepo.messages)

	msg, err := svc.SendMessage(context.Background(), chat.ID, 1, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.MessageText)
	assert.Equal(t, models.MessageSent, msg.Status)
}

func TestSendMessageEmptyText(t *testing.T) {
	carRepo := newFakeCarRepo(&models.Car{ID: 10, LenderID: 2})
	svc := newChatService(newFakeChatRepo(), newFakeMessageRepo(), carRepo)

	chat, err := svc.InitiateChat(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), chat.ID, 1, "   ")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestMarkReadOnlyFlipsOtherPartysMessages(t *testing.T) {
	carRepo := newFakeCarRepo(&models.Car{ID: 10, LenderID: 2})
	chatRepo := newFakeChatRepo()
	messageRepo := newFakeMessageRepo()
	svc := newChatService(chatRepo, messageRepo, carRepo)

	chat, err := svc.InitiateChat(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), chat.ID, 1, "from renter")
	require.NoError(t, err)
	lenderMsg, err := svc.SendMessage(context.Background(), chat.ID, 2, "from lender")
	require.NoError(t, err)

	ids, err := svc.MarkRead(context.Background(), chat.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{lenderMsg.ID}, ids)

	// A second pass finds nothing left to mark.
	ids, err = svc.MarkRead(context.Background(), chat.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetChatHistorySnapshot(t *testing.T) {
	carRepo := newFakeCarRepo(&models.Car{ID: 10, LenderID: 2})
	svc := newChatService(newFakeChatRepo(), newFakeMessageRepo(), carRepo)

	chat, err := svc.InitiateChat(context.Background(), 1, 10)
	require.NoError(t, err)

	for _, text := range []string{"one", "two", "three"} {
		_, err = svc.SendMessage(context.Background(), chat.ID, 1, text)
		require.NoError(t, err)
	}

	got, err := svc.GetChat(context.Background(), chat.ID, 2)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "one", got.Messages[0].MessageText)
	assert.Equal(t, "three", got.Messages[2].MessageText)

	_, err = svc.GetChat(context.Background(), chat.ID, 99)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetLenderChats(t *testing.T) {
	carRepo := newFakeCarRepo(
		&models.Car{ID: 10, LenderID: 2},
		&models.Car{ID: 11, LenderID: 2},
		&models.Car{ID: 12, LenderID: 3},
	)
	chatRepo := newFakeChatRepo()
	svc := newChatService(chatRepo, newFakeMessageRepo(), carRepo)

	_, err := svc.InitiateChat(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = svc.InitiateChat(context.Background(), 1, 11)
	require.NoError(t, err)
	_, err = svc.InitiateChat(context.Background(), 1, 12)
	require.NoError(t, err)

	chats, err := svc.GetLenderChats(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, chats, 2)
}
