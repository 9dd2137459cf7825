package models

import (
	"time"
)

// Chat defines the chat model based on the 'chats' table. One chat exists
// per (car, renter) pair; the lender is denormalized for membership checks.
type Chat struct {
	ID        int64     `json:"id" db:"id"`
	CarID     int64     `json:"carId" db:"car_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	LenderID  int64     `json:"lenderId" db:"lender_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Renter *User `json:"renter,omitempty"` // Relation, no db tag
	Lender *User `json:"lender,omitempty"` // Relation, no db tag
}

// Message defines the message model based on the 'messages' table
type Message struct {
	ID          int64         `json:"id" db:"id"`
	ChatID      int64         `json:"chatId" db:"chat_id"`
	SenderID    int64         `json:"senderId" db:"sender_id"`
	MessageText string        `json:"messageText" db:"message_text"`
	Status      MessageStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
}

// IsMember reports whether the user participates in the chat
func (c *Chat) IsMember(userID int64) bool {
	return c.UserID == userID || c.LenderID == userID
}
