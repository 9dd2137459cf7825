package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	TokenRepository    *TokenRepository
	CategoryRepository *CategoryRepository
	CarRepository      *CarRepository
	CarImageRepository *CarImageRepository
	ReviewRepository   *ReviewRepository
	ChatRepository     *ChatRepository
	MessageRepository  *MessageRepository
	AddressRepository  *AddressRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db),
		TokenRepository:    NewTokenRepository(db),
		CategoryRepository: NewCategoryRepository(db),
		CarRepository:      NewCarRepository(db),
		CarImageRepository: NewCarImageRepository(db),
		ReviewRepository:   NewReviewRepository(db),
		ChatRepository:     NewChatRepository(db),
		MessageRepository:  NewMessageRepository(db),
		AddressRepository:  NewAddressRepository(db),
	}
}
