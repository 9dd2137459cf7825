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

// ITokenRepository defines the interface for refresh token persistence
type ITokenRepository interface {
	Upsert(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID int64, token string) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

// TokenRepository handles database operations for refresh tokens
type TokenRepository struct {
	db *pgxpool.Pool
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

// Upsert stores a refresh token for a user. A user holds a single refresh
// token row; concurrent logins converge on the last writer through the
// unique user_id constraint.
func (r *TokenRepository) Upsert(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at, revoked)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at,
			revoked = FALSE, created_at = NOW()
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, token.UserID, token.Token, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return fmt.Errorf("error upserting refresh token: %w", err)
	}

	return nil
}

// GetByToken retrieves a refresh token row by its token value
func (r *TokenRepository) GetByToken(ctx context.Context, tokenValue string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE token = $1
	`

	var token models.RefreshToken
	err := r.db.QueryRow(ctx, query, tokenValue).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpiresAt,
		&token.Revoked,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving refresh token: %w", err)
	}

	return &token, nil
}

// DeleteByToken removes a refresh token row by its token value
func (r *TokenRepository) DeleteByToken(ctx context.Context, tokenValue string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, tokenValue)
	if err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// DeleteForUser removes a refresh token row only when it belongs to the user.
// Logout must not revoke another user's session through a guessed token value.
func (r *TokenRepository) DeleteForUser(ctx context.Context, userID int64, tokenValue string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`, userID, tokenValue)
	if err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// DeleteByUserID removes the refresh token row of a user
func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error deleting refresh tokens for user: %w", err)
	}
	return nil
}
