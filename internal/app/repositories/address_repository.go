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

// IAddressRepository defines the interface for address database operations
type IAddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, id int64) (*models.Address, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id int64) error
	UnsetDefaultForUser(ctx context.Context, userID int64) error
}

// AddressRepository handles database operations for addresses
type AddressRepository struct {
	db *pgxpool.Pool
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{db: db}
}

const addressColumns = `id, user_id, street, city, state, postal_code, country, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (*models.Address, error) {
	var address models.Address
	err := row.Scan(
		&address.ID,
		&address.UserID,
		&address.Street,
		&address.City,
		&address.State,
		&address.PostalCode,
		&address.Country,
		&address.IsDefault,
		&address.CreatedAt,
		&address.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAddressNotFound
		}
		return nil, fmt.Errorf("error scanning address: %w", err)
	}
	return &address, nil
}

// Create creates a new address
func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	query := `
		INSERT INTO addresses (user_id, street, city, state, postal_code, country, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		address.UserID,
		address.Street,
		address.City,
		address.State,
		address.PostalCode,
		address.Country,
		address.IsDefault,
	).Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating address: %w", err)
	}

	return nil
}

// GetByID retrieves an address by ID
func (r *AddressRepository) GetByID(ctx context.Context, id int64) (*models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`
	return scanAddress(r.db.QueryRow(ctx, query, id))
}

// GetByUserID retrieves all addresses of a user, default first
func (r *AddressRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses
		WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*models.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return addresses, nil
}

// Update updates an address
func (r *AddressRepository) Update(ctx context.Context, address *models.Address) error {
	query := `
		UPDATE addresses
		SET street = $2, city = $3, state = $4, postal_code = $5, country = $6,
			is_default = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		address.ID,
		address.Street,
		address.City,
		address.State,
		address.PostalCode,
		address.Country,
		address.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("error updating address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAddressNotFound
	}

	return nil
}

// Delete removes an address
func (r *AddressRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAddressNotFound
	}
	return nil
}

// UnsetDefaultForUser clears the default flag on all addresses of a user
func (r *AddressRepository) UnsetDefaultForUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID)
	if err != nil {
		return fmt.Errorf("error unsetting default address: %w", err)
	}
	return nil
}
