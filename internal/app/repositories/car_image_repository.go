package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/dberrors"
)

// ICarImageRepository defines the interface for car image database operations
type ICarImageRepository interface {
	Create(ctx context.Context, image *models.CarImage) error
	GetByID(ctx context.Context, id int64) (*models.CarImage, error)
	GetByCarID(ctx context.Context, carID int64) ([]models.CarImage, error)
	CountByCarID(ctx context.Context, carID int64) (int64, error)
	UnsetMainForCar(ctx context.Context, carID int64) error
	SetMain(ctx context.Context, imageID int64) error
	UpdateOrder(ctx context.Context, imageID int64, order int) error
	Delete(ctx context.Context, id int64) error
	GetFirstForCar(ctx context.Context, carID int64) (*models.CarImage, error)
}

// CarImageRepository handles database operations for car images
type CarImageRepository struct {
	db *pgxpool.Pool
}

// NewCarImageRepository creates a new car image repository
func NewCarImageRepository(db *pgxpool.Pool) *CarImageRepository {
	return &CarImageRepository{db: db}
}

const carImageColumns = `id, car_id, image_url, public_id, is_main, image_order, created_at`

func scanCarImage(row pgx.Row) (*models.CarImage, error) {
	var image models.CarImage
	err := row.Scan(
		&image.ID,
		&image.CarID,
		&image.ImageURL,
		&image.PublicID,
		&image.IsMain,
		&image.ImageOrder,
		&image.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrImageNotFound
		}
		return nil, fmt.Errorf("error scanning car image: %w", err)
	}
	return &image, nil
}

// Create inserts a car image row. The partial unique index on
// (car_id) WHERE is_main rejects a second main image.
func (r *CarImageRepository) Create(ctx context.Context, image *models.CarImage) error {
	query := `
		INSERT INTO car_images (car_id, image_url, public_id, is_main, image_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		image.CarID,
		image.ImageURL,
		image.PublicID,
		image.IsMain,
		image.ImageOrder,
	).Scan(&image.ID, &image.CreatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("car already has a main image")
		}
		return fmt.Errorf("error creating car image: %w", err)
	}

	return nil
}

// GetByID retrieves a car image by ID
func (r *CarImageRepository) GetByID(ctx context.Context, id int64) (*models.CarImage, error) {
	query := `SELECT ` + carImageColumns + ` FROM car_images WHERE id = $1`
	return scanCarImage(r.db.QueryRow(ctx, query, id))
}

// GetByCarID retrieves all images of a car ordered by image_order then id
func (r *CarImageRepository) GetByCarID(ctx context.Context, carID int64) ([]models.CarImage, error) {
	query := `SELECT ` + carImageColumns + ` FROM car_images
		WHERE car_id = $1 ORDER BY image_order, id`

	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		return nil, fmt.Errorf("error listing car images: %w", err)
	}
	defer rows.Close()

	var images []models.CarImage
	for rows.Next() {
		image, err := scanCarImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, *image)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return images, nil
}

// CountByCarID counts the images of a car
func (r *CarImageRepository) CountByCarID(ctx context.Context, carID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM car_images WHERE car_id = $1`, carID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting car images: %w", err)
	}
	return count, nil
}

// UnsetMainForCar clears the main flag on all images of a car
func (r *CarImageRepository) UnsetMainForCar(ctx context.Context, carID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE car_images SET is_main = FALSE WHERE car_id = $1 AND is_main`, carID)
	if err != nil {
		return fmt.Errorf("error unsetting main image: %w", err)
	}
	return nil
}

// SetMain marks an image as the main image of its car
func (r *CarImageRepository) SetMain(ctx context.Context, imageID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE car_images SET is_main = TRUE WHERE id = $1`, imageID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("car already has a main image")
		}
		return fmt.Errorf("error setting main image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrImageNotFound
	}
	return nil
}

// UpdateOrder changes the sort order of an image
func (r *CarImageRepository) UpdateOrder(ctx context.Context, imageID int64, order int) error {
	tag, err := r.db.Exec(ctx, `UPDATE car_images SET image_order = $2 WHERE id = $1`, imageID, order)
	if err != nil {
		return fmt.Errorf("error updating image order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrImageNotFound
	}
	return nil
}

// Delete removes a car image row
func (r *CarImageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM car_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting car image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrImageNotFound
	}
	return nil
}

// GetFirstForCar retrieves the image with the lowest order for a car. Ties
// break on the lowest id.
func (r *CarImageRepository) GetFirstForCar(ctx context.Context, carID int64) (*models.CarImage, error) {
	query := `SELECT ` + carImageColumns + ` FROM car_images
		WHERE car_id = $1 ORDER BY image_order, id LIMIT 1`
	return scanCarImage(r.db.QueryRow(ctx, query, carID))
}
