package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/apperrors"
)

const chatHistoryLimit = 50

// ChatService handles chat and message operations
type ChatService struct {
	chatRepo    repositories.IChatRepository
	messageRepo repositories.IMessageRepository
	carRepo     repositories.ICarRepository
	logger      zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	chatRepo repositories.IChatRepository,
	messageRepo repositories.IMessageRepository,
	carRepo repositories.ICarRepository,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		carRepo:     carRepo,
		logger:      logger,
	}
}

// InitiateChat opens (or reopens) the chat between a renter and a car's
// lender and returns it with the latest history snapshot
func (s *ChatService) InitiateChat(ctx context.Context, userID, carID int64) (*dto.ChatResponse, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	if car.LenderID == userID {
		return nil, apperrors.NewBadRequestError("cannot open a chat on your own car")
	}

	chat, err := s.chatRepo.GetOrCreate(ctx, carID, userID, car.LenderID)
	if err != nil {
		return nil, err
	}

	return s.chatWithHistory(ctx, chat)
}

// GetChat returns a chat with its history snapshot. The caller must be a
// participant.
func (s *ChatService) GetChat(ctx context.Context, chatID, userID int64) (*dto.ChatResponse, error) {
	chat, err := s.authorizeChat(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	return s.chatWithHistory(ctx, chat)
}

// SendMessage stores a message in a chat the sender participates in
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID int64, text string) (*dto.MessageResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("message text cannot be empty")
	}

	if _, err := s.authorizeChat(ctx, chatID, senderID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ChatID:      chatID,
		SenderID:    senderID,
		MessageText: text,
		Status:      models.MessageSent,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	resp := dto.FromMessage(message)
	return &resp, nil
}

// MarkRead marks the other participant's messages as read and returns the
// affected message IDs
func (s *ChatService) MarkRead(ctx context.Context, chatID, readerID int64) ([]int64, error) {
	if _, err := s.authorizeChat(ctx, chatID, readerID); err != nil {
		return nil, err
	}
	return s.messageRepo.MarkRead(ctx, chatID, readerID)
}

// GetLenderChats returns all chats on the lender's cars
func (s *ChatService) GetLenderChats(ctx context.Context, lenderID int64) ([]dto.ChatResponse, error) {
	chats, err := s.chatRepo.GetByLenderID(ctx, lenderID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChatResponse, 0, len(chats))
	for _, chat := range chats {
		responses = append(responses, dto.FromChat(chat))
	}

	return responses, nil
}

// IsMember reports whether the user participates in the chat
func (s *ChatService) IsMember(ctx context.Context, chatID, userID int64) (bool, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return false, err
	}
	return chat.IsMember(userID), nil
}

func (s *ChatService) authorizeChat(ctx context.Context, chatID, userID int64) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsMember(userID) {
		return nil, apperrors.ErrPermissionDenied
	}
	return chat, nil
}

func (s *ChatService) chatWithHistory(ctx context.Context, chat *models.Chat) (*dto.ChatResponse, error) {
	messages, err := s.messageRepo.GetLatestByChatID(ctx, chat.ID, chatHistoryLimit)
	if err != nil {
		return nil, err
	}

	resp := dto.FromChat(chat)
	for _, message := range messages {
		resp.Messages = append(resp.Messages, dto.FromMessage(message))
	}

	return &resp, nil
}
