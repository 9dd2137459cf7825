package dto

import (
	"time"

	"github.com/eren/driveshare/internal/app/models"
)

// MessageResponse represents a single chat message
type MessageResponse struct {
	ID          int64                `json:"id"`
	ChatID      int64                `json:"chatId"`
	SenderID    int64                `json:"senderId"`
	MessageText string               `json:"messageText"`
	Status      models.MessageStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// FromMessage converts a models.Message to a MessageResponse
func FromMessage(message *models.Message) MessageResponse {
	if message == nil {
		return MessageResponse{}
	}
	return MessageResponse{
		ID:          message.ID,
		ChatID:      message.ChatID,
		SenderID:    message.SenderID,
		MessageText: message.MessageText,
		Status:      message.Status,
		CreatedAt:   message.CreatedAt,
	}
}

// ChatResponse represents a chat with its latest message history snapshot
type ChatResponse struct {
	ID         int64             `json:"id"`
	CarID      int64             `json:"carId"`
	UserID     int64             `json:"userId"`
	LenderID   int64             `json:"lenderId"`
	RenterName string            `json:"renterName,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	Messages   []MessageResponse `json:"messages,omitempty"`
}

// FromChat converts a models.Chat to a ChatResponse
func FromChat(chat *models.Chat) ChatResponse {
	if chat == nil {
		return ChatResponse{}
	}

	resp := ChatResponse{
		ID:        chat.ID,
		CarID:     chat.CarID,
		UserID:    chat.UserID,
		LenderID:  chat.LenderID,
		CreatedAt: chat.CreatedAt,
	}
	if chat.Renter != nil {
		resp.RenterName = chat.Renter.Name
	}
	return resp
}
