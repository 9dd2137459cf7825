package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/helpers"
)

// ICarRepository defines the interface for car database operations
type ICarRepository interface {
	Create(ctx context.Context, car *models.Car) error
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	GetAll(ctx context.Context, filter dto.CarFilter, page, size int) ([]*models.Car, int64, error)
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id int64) error
}

// CarRepository handles database operations for cars
type CarRepository struct {
	db *pgxpool.Pool
}

// NewCarRepository creates a new car repository
func NewCarRepository(db *pgxpool.Pool) *CarRepository {
	return &CarRepository{db: db}
}

// Common select query builder for cars joined with lender, category and
// review aggregates
func (r *CarRepository) selectCarDetailsQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"c.id", "c.lender_id", "c.category_id", "c.title", "c.brand", "c.model",
		"c.year", "c.description", "c.price_per_day", "c.location_city",
		"c.availability_status", "c.created_at", "c.updated_at",
		"u.name as lender_name", "cat.name as category_name",
		"avg(r.rating) as average_rating", "count(r.id) as review_count",
	).From("cars c").
		Join("users u ON c.lender_id = u.id").
		Join("categories cat ON c.category_id = cat.id").
		LeftJoin("reviews r ON r.car_id = c.id").
		GroupBy("c.id", "u.name", "cat.name").
		PlaceholderFormat(squirrel.Dollar)
}

func scanCarDetails(row pgx.Row) (*models.Car, error) {
	var car models.Car
	var lenderName, categoryName string
	var avgRating *float64
	var reviewCount int64

	err := row.Scan(
		&car.ID, &car.LenderID, &car.CategoryID, &car.Title, &car.Brand, &car.Model,
		&car.Year, &car.Description, &car.PricePerDay, &car.LocationCity,
		&car.AvailabilityStatus, &car.CreatedAt, &car.UpdatedAt,
		&lenderName, &categoryName,
		&avgRating, &reviewCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCarNotFound
		}
		return nil, fmt.Errorf("error scanning car: %w", err)
	}

	car.Lender = &models.User{ID: car.LenderID, Name: lenderName}
	car.Category = &models.Category{ID: car.CategoryID, Name: categoryName}
	car.AverageRating = avgRating
	car.ReviewCount = reviewCount

	return &car, nil
}

// Create creates a new car
func (r *CarRepository) Create(ctx context.Context, car *models.Car) error {
	query := `
		INSERT INTO cars (lender_id, category_id, title, brand, model, year, description, price_per_day, location_city, availability_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		car.LenderID,
		car.CategoryID,
		car.Title,
		car.Brand,
		car.Model,
		car.Year,
		car.Description,
		car.PricePerDay,
		car.LocationCity,
		car.AvailabilityStatus,
	).Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating car: %w", err)
	}

	return nil
}

// GetByID retrieves a car by ID with lender, category and rating aggregates
func (r *CarRepository) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	sql, args, err := r.selectCarDetailsQuery().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building car query: %w", err)
	}

	return scanCarDetails(r.db.QueryRow(ctx, sql, args...))
}

func applyCarFilter(builder squirrel.SelectBuilder, filter dto.CarFilter) squirrel.SelectBuilder {
	if filter.Brand != "" {
		builder = builder.Where(squirrel.ILike{"c.brand": filter.Brand})
	}
	if filter.Model != "" {
		builder = builder.Where(squirrel.ILike{"c.model": filter.Model})
	}
	if filter.City != "" {
		builder = builder.Where(squirrel.ILike{"c.location_city": filter.City})
	}
	if filter.CategoryID > 0 {
		builder = builder.Where(squirrel.Eq{"c.category_id": filter.CategoryID})
	}
	if filter.LenderID > 0 {
		builder = builder.Where(squirrel.Eq{"c.lender_id": filter.LenderID})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"c.availability_status": filter.Status})
	}
	if filter.MinYear > 0 {
		builder = builder.Where(squirrel.GtOrEq{"c.year": filter.MinYear})
	}
	if filter.MaxYear > 0 {
		builder = builder.Where(squirrel.LtOrEq{"c.year": filter.MaxYear})
	}
	if filter.MinPrice > 0 {
		builder = builder.Where(squirrel.GtOrEq{"c.price_per_day": filter.MinPrice})
	}
	if filter.MaxPrice > 0 {
		builder = builder.Where(squirrel.LtOrEq{"c.price_per_day": filter.MaxPrice})
	}
	return builder
}

var carSortColumns = map[string]string{
	"price":     "c.price_per_day",
	"year":      "c.year",
	"createdAt": "c.created_at",
	"brand":     "c.brand",
}

// GetAll retrieves cars matching the filter with pagination
func (r *CarRepository) GetAll(ctx context.Context, filter dto.CarFilter, page, size int) ([]*models.Car, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	countBuilder := applyCarFilter(
		squirrel.Select("count(*)").From("cars c").PlaceholderFormat(squirrel.Dollar),
		filter,
	)

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting cars: %w", err)
	}

	sortColumn, ok := carSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "c.created_at"
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	listBuilder := applyCarFilter(r.selectCarDetailsQuery(), filter).
		OrderBy(sortColumn + " " + sortOrder).
		Offset(offset).
		Limit(uint64(limit))

	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing cars: %w", err)
	}
	defer rows.Close()

	var cars []*models.Car
	for rows.Next() {
		car, err := scanCarDetails(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, car)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return cars, total, nil
}

// Update updates a car
func (r *CarRepository) Update(ctx context.Context, car *models.Car) error {
	query := `
		UPDATE cars
		SET category_id = $2, title = $3, brand = $4, model = $5, year = $6,
			description = $7, price_per_day = $8, location_city = $9,
			availability_status = $10, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		car.ID,
		car.CategoryID,
		car.Title,
		car.Brand,
		car.Model,
		car.Year,
		car.Description,
		car.PricePerDay,
		car.LocationCity,
		car.AvailabilityStatus,
	)
	if err != nil {
		return fmt.Errorf("error updating car: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCarNotFound
	}

	return nil
}

// Delete removes a car
func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting car: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCarNotFound
	}
	return nil
}
