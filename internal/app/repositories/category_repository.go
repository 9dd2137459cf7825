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

// ICategoryRepository defines the interface for category database operations
type ICategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetAll(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, category.Name, category.Description).Scan(&category.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCategoryExists
		}
		return fmt.Errorf("error creating category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT id, name, description FROM categories WHERE id = $1`

	var category models.Category
	err := r.db.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name, &category.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("error retrieving category: %w", err)
	}

	return &category, nil
}

// GetAll retrieves all categories
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT id, name, description FROM categories ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories SET name = $2, description = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, category.ID, category.Name, category.Description)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCategoryExists
		}
		return fmt.Errorf("error updating category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// Exists checks if a category exists
func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking category existence: %w", err)
	}
	return exists, nil
}
