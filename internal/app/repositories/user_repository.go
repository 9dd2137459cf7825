package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/dberrors"
	"github.com/eren/driveshare/internal/pkg/helpers"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	MarkVerified(ctx context.Context, userID int64) error
	SetVerifyToken(ctx context.Context, userID int64, token string, expiry time.Time) error
	SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error
	ClearPasswordResetToken(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string, changedAt time.Time) error
	UpdateProfile(ctx context.Context, userID int64, name string) error
	UpdateProfileImage(ctx context.Context, userID int64, image *string) error
	UpdateRole(ctx context.Context, userID int64, role models.RoleType) error
	UpdateStatus(ctx context.Context, userID int64, status models.AccountStatus) error
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context, role, status string, page, size int) ([]*models.User, int64, error)
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_verified,
	verify_token, verify_token_expiry, password_reset_token,
	password_reset_token_expiry, password_changed_at, account_status,
	profile_image, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.IsVerified,
		&user.VerifyToken,
		&user.VerifyTokenExpiry,
		&user.PasswordResetToken,
		&user.PasswordResetTokenExpiry,
		&user.PasswordChangedAt,
		&user.AccountStatus,
		&user.ProfileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, is_verified, verify_token, verify_token_expiry, account_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Password,
		user.Role,
		user.IsVerified,
		user.VerifyToken,
		user.VerifyTokenExpiry,
		user.AccountStatus,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// GetByResetTokenHash retrieves a user by the digest of a password reset token
// that has not yet expired
func (r *UserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE password_reset_token = $1 AND password_reset_token_expiry > NOW()`
	return scanUser(r.db.QueryRow(ctx, query, tokenHash))
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// MarkVerified marks the user's email as verified and clears the verification token
func (r *UserRepository) MarkVerified(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET is_verified = TRUE, verify_token = NULL, verify_token_expiry = NULL, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, userID)
}

// SetVerifyToken stores a fresh email verification token
func (r *UserRepository) SetVerifyToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	query := `
		UPDATE users
		SET verify_token = $2, verify_token_expiry = $3, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, userID, token, expiry)
}

// SetPasswordResetToken stores the digest of a password reset token
func (r *UserRepository) SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error {
	query := `
		UPDATE users
		SET password_reset_token = $2, password_reset_token_expiry = $3, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, userID, tokenHash, expiry)
}

// ClearPasswordResetToken removes any stored reset token
func (r *UserRepository) ClearPasswordResetToken(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET password_reset_token = NULL, password_reset_token_expiry = NULL, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, userID)
}

// UpdatePassword replaces the password hash, stamps the change time and clears
// any pending reset token
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string, changedAt time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3,
			password_reset_token = NULL, password_reset_token_expiry = NULL,
			updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, userID, passwordHash, changedAt)
}

// UpdateProfile updates a user's basic profile information
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, name string) error {
	query := `UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, userID, name)
}

// UpdateProfileImage updates the profile image path for a given user
func (r *UserRepository) UpdateProfileImage(ctx context.Context, userID int64, image *string) error {
	query := `UPDATE users SET profile_image = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, userID, image)
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(ctx context.Context, userID int64, role models.RoleType) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, userID, role)
}

// UpdateStatus changes a user's account status
func (r *UserRepository) UpdateStatus(ctx context.Context, userID int64, status models.AccountStatus) error {
	query := `UPDATE users SET account_status = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, userID, status)
}

// Delete removes a user permanently
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

// GetAll retrieves users filtered by role and status with pagination
func (r *UserRepository) GetAll(ctx context.Context, role, status string, page, size int) ([]*models.User, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	builder := squirrel.Select(
		"id", "name", "email", "password_hash", "role", "is_verified",
		"verify_token", "verify_token_expiry", "password_reset_token",
		"password_reset_token_expiry", "password_changed_at", "account_status",
		"profile_image", "created_at", "updated_at",
	).From("users").PlaceholderFormat(squirrel.Dollar)

	countBuilder := squirrel.Select("count(*)").From("users").
		PlaceholderFormat(squirrel.Dollar)

	if role != "" {
		builder = builder.Where(squirrel.Eq{"role": role})
		countBuilder = countBuilder.Where(squirrel.Eq{"role": role})
	}
	if status != "" {
		builder = builder.Where(squirrel.Eq{"account_status": status})
		countBuilder = countBuilder.Where(squirrel.Eq{"account_status": status})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	listSQL, listArgs, err := builder.
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error executing user update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
