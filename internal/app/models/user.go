package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                       int64         `json:"id" db:"id"`
	Name                     string        `json:"name" db:"name"`
	Email                    string        `json:"email" db:"email"`
	Password                 string        `json:"-" db:"password_hash"` // Hashed, excluded from JSON
	Role                     RoleType      `json:"role" db:"role"`
	IsVerified               bool          `json:"isVerified" db:"is_verified"`
	VerifyToken              *string       `json:"-" db:"verify_token"`
	VerifyTokenExpiry        *time.Time    `json:"-" db:"verify_token_expiry"`
	PasswordResetToken       *string       `json:"-" db:"password_reset_token"` // SHA-256 digest of the raw token
	PasswordResetTokenExpiry *time.Time    `json:"-" db:"password_reset_token_expiry"`
	PasswordChangedAt        *time.Time    `json:"-" db:"password_changed_at"`
	AccountStatus            AccountStatus `json:"accountStatus" db:"account_status"`
	ProfileImage             *string       `json:"profileImage,omitempty" db:"profile_image"`
	CreatedAt                time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt                time.Time     `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the account can be used
func (u *User) IsActive() bool {
	return u.AccountStatus == AccountActive
}

// RefreshToken defines the refresh token model based on the 'refresh_tokens'
// table. Each user holds at most one row; issuing a new token replaces it.
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
