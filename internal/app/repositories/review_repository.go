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
	"github.com/eren/driveshare/internal/pkg/helpers"
)

// IReviewRepository defines the interface for review database operations
type IReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	GetByCarID(ctx context.Context, carID int64, page, size int) ([]*models.Review, int64, error)
	AverageForCar(ctx context.Context, carID int64) (*float64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
}

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review. A user reviews a car at most once.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (user_id, car_id, lender_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		review.UserID,
		review.CarID,
		review.LenderID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("you have already reviewed this car")
		}
		return fmt.Errorf("error creating review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	query := `
		SELECT id, user_id, car_id, lender_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	var review models.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.UserID,
		&review.CarID,
		&review.LenderID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error retrieving review: %w", err)
	}

	return &review, nil
}

// GetByCarID retrieves the reviews of a car with reviewer names, paginated
func (r *ReviewRepository) GetByCarID(ctx context.Context, carID int64, page, size int) ([]*models.Review, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM reviews WHERE car_id = $1`, carID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting reviews: %w", err)
	}

	query := `
		SELECT r.id, r.user_id, r.car_id, r.lender_id, r.rating, r.comment,
			r.created_at, r.updated_at, u.name
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.car_id = $1
		ORDER BY r.created_at DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, carID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var review models.Review
		var reviewerName string
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.CarID,
			&review.LenderID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
			&reviewerName,
		); err != nil {
			return nil, 0, err
		}
		review.Reviewer = &models.User{ID: review.UserID, Name: reviewerName}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// AverageForCar returns the average rating of a car, nil when unreviewed
func (r *ReviewRepository) AverageForCar(ctx context.Context, carID int64) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx, `SELECT avg(rating) FROM reviews WHERE car_id = $1`, carID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("error averaging reviews: %w", err)
	}
	return avg, nil
}

// Update updates a review
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	query := `
		UPDATE reviews SET rating = $2, comment = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, review.ID, review.Rating, review.Comment)
	if err != nil {
		return fmt.Errorf("error updating review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}

	return nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}
