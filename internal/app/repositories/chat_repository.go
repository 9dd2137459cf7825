package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/pkg/apperrors"
)

// IChatRepository defines the interface for chat database operations
type IChatRepository interface {
	GetOrCreate(ctx context.Context, carID, userID, lenderID int64) (*models.Chat, error)
	GetByID(ctx context.Context, id int64) (*models.Chat, error)
	GetByLenderID(ctx context.Context, lenderID int64) ([]*models.Chat, error)
}

// IMessageRepository defines the interface for message database operations
type IMessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetLatestByChatID(ctx context.Context, chatID int64, limit int) ([]*models.Message, error)
	MarkRead(ctx context.Context, chatID, readerID int64) ([]int64, error)
}

// ChatRepository handles database operations for chats
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// GetOrCreate returns the chat for a (car, renter) pair, creating it when
// absent. Concurrent creates converge on the same row through the unique
// (car_id, user_id) constraint.
func (r *ChatRepository) GetOrCreate(ctx context.Context, carID, userID, lenderID int64) (*models.Chat, error) {
	query := `
		INSERT INTO chats (car_id, user_id, lender_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (car_id, user_id) DO UPDATE SET lender_id = EXCLUDED.lender_id
		RETURNING id, car_id, user_id, lender_id, created_at
	`

	var chat models.Chat
	err := r.db.QueryRow(ctx, query, carID, userID, lenderID).Scan(
		&chat.ID,
		&chat.CarID,
		&chat.UserID,
		&chat.LenderID,
		&chat.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating chat: %w", err)
	}

	return &chat, nil
}

// GetByID retrieves a chat by ID
func (r *ChatRepository) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	query := `
		SELECT id, car_id, user_id, lender_id, created_at
		FROM chats
		WHERE id = $1
	`

	var chat models.Chat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID,
		&chat.CarID,
		&chat.UserID,
		&chat.LenderID,
		&chat.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("error retrieving chat: %w", err)
	}

	return &chat, nil
}

// GetByLenderID retrieves all chats on a lender's cars with renter names
func (r *ChatRepository) GetByLenderID(ctx context.Context, lenderID int64) ([]*models.Chat, error) {
	query := `
		SELECT c.id, c.car_id, c.user_id, c.lender_id, c.created_at, u.name
		FROM chats c
		JOIN users u ON c.user_id = u.id
		WHERE c.lender_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, lenderID)
	if err != nil {
		return nil, fmt.Errorf("error listing lender chats: %w", err)
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		var chat models.Chat
		var renterName string
		if err := rows.Scan(
			&chat.ID,
			&chat.CarID,
			&chat.UserID,
			&chat.LenderID,
			&chat.CreatedAt,
			&renterName,
		); err != nil {
			return nil, err
		}
		chat.Renter = &models.User{ID: chat.UserID, Name: renterName}
		chats = append(chats, &chat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chats, nil
}

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores a new message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (chat_id, sender_id, message_text, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ChatID,
		message.SenderID,
		message.MessageText,
		message.Status,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating message: %w", err)
	}

	return nil
}

// GetLatestByChatID returns the latest messages of a chat in ascending
// chronological order
func (r *MessageRepository) GetLatestByChatID(ctx context.Context, chatID int64, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, chat_id, sender_id, message_text, status, created_at
		FROM (
			SELECT id, chat_id, sender_id, message_text, status, created_at
			FROM messages
			WHERE chat_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.ChatID,
			&message.SenderID,
			&message.MessageText,
			&message.Status,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkRead marks every unread message sent by the other participant as read
// and returns the affected message IDs
func (r *MessageRepository) MarkRead(ctx context.Context, chatID, readerID int64) ([]int64, error) {
	query := `
		UPDATE messages
		SET status = 'read'
		WHERE chat_id = $1 AND sender_id <> $2 AND status = 'sent'
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, chatID, readerID)
	if err != nil {
		return nil, fmt.Errorf("error marking messages read: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
