// Package seed creates the default records the application expects at boot.
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/eren/driveshare/internal/app/models"
	appRepos "github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/auth"
)

const (
	defaultAdminEmail    = "admin@driveshare.app"
	defaultAdminPassword = "Admin123!"
)

// CreateDefaultData creates the default admin account and the base car
// categories if they don't exist. Individual failures are collected so one
// broken seed doesn't block the rest.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	categoryRepo := appRepos.NewCategoryRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (admin, categories)...")
	var finalErr error

	defaultCategories := []struct {
		name        string
		description string
	}{
		{"Sedan", "Four-door passenger cars"},
		{"SUV", "Sport utility vehicles"},
		{"Hatchback", "Compact cars with a rear hatch"},
		{"Convertible", "Cars with a retractable roof"},
		{"Van", "Passenger and cargo vans"},
	}

	for _, c := range defaultCategories {
		description := c.description
		category := appModels.Category{Name: c.name, Description: &description}
		if err := categoryRepo.Create(ctx, &category); err != nil && !errors.Is(err, apperrors.ErrCategoryExists) {
			lgr.Error().Err(err).Str("category", c.name).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return errors.Join(finalErr, err)
	}
	if exists {
		return finalErr
	}

	lgr.Info().Msg("Creating default admin user...")

	hashedPassword, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.User{
		Name:          "Administrator",
		Email:         defaultAdminEmail,
		Password:      hashedPassword,
		Role:          appModels.RoleAdmin,
		IsVerified:    true,
		AccountStatus: appModels.AccountActive,
	}
	if err := userRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
