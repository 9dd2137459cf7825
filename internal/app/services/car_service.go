package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/filestorage"
	"github.com/eren/driveshare/internal/pkg/helpers"
)

// CarService handles car listing operations
type CarService struct {
	carRepo      repositories.ICarRepository
	categoryRepo repositories.ICategoryRepository
	imageRepo    repositories.ICarImageRepository
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewCarService creates a new CarService
func NewCarService(
	carRepo repositories.ICarRepository,
	categoryRepo repositories.ICategoryRepository,
	imageRepo repositories.ICarImageRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *CarService {
	return &CarService{
		carRepo:      carRepo,
		categoryRepo: categoryRepo,
		imageRepo:    imageRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Create creates a new car listing owned by the lender
func (s *CarService) Create(ctx context.Context, lenderID int64, req *dto.CreateCarRequest) (*dto.CarResponse, error) {
	exists, err := s.categoryRepo.Exists(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrCategoryNotFound
	}

	car := &models.Car{
		LenderID:           lenderID,
		CategoryID:         req.CategoryID,
		Title:              req.Title,
		Brand:              req.Brand,
		Model:              req.Model,
		Year:               req.Year,
		Description:        req.Description,
		PricePerDay:        req.PricePerDay,
		LocationCity:       req.LocationCity,
		AvailabilityStatus: models.CarAvailable,
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, car.ID)
}

// GetByID returns a car with its images and rating aggregates
func (s *CarService) GetByID(ctx context.Context, id int64) (*dto.CarResponse, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.imageRepo.GetByCarID(ctx, id)
	if err != nil {
		return nil, err
	}
	car.Images = images

	resp := dto.FromCar(car)
	return &resp, nil
}

// GetAll returns cars matching the filter with pagination
func (s *CarService) GetAll(ctx context.Context, filter dto.CarFilter, page, size int) (*dto.CarListResponse, error) {
	cars, total, err := s.carRepo.GetAll(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CarResponse, 0, len(cars))
	for _, car := range cars {
		images, err := s.imageRepo.GetByCarID(ctx, car.ID)
		if err != nil {
			return nil, err
		}
		car.Images = images
		responses = append(responses, dto.FromCar(car))
	}

	return &dto.CarListResponse{
		Cars:       responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Update updates a car. Only the owning lender or an admin may update.
func (s *CarService) Update(ctx context.Context, id, callerID int64, callerRole models.RoleType, req *dto.UpdateCarRequest) (*dto.CarResponse, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if car.LenderID != callerID && callerRole != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.CategoryID != nil {
		exists, err := s.categoryRepo.Exists(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrCategoryNotFound
		}
		car.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		car.Title = *req.Title
	}
	if req.Brand != nil {
		car.Brand = *req.Brand
	}
	if req.Model != nil {
		car.Model = *req.Model
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.Description != nil {
		car.Description = req.Description
	}
	if req.PricePerDay != nil {
		car.PricePerDay = *req.PricePerDay
	}
	if req.LocationCity != nil {
		car.LocationCity = *req.LocationCity
	}
	if req.AvailabilityStatus != nil {
		if !models.ValidAvailability(*req.AvailabilityStatus) {
			return nil, apperrors.NewBadRequestError("unknown availability status")
		}
		car.AvailabilityStatus = *req.AvailabilityStatus
	}

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete removes a car and its stored images. Only the owning lender or an
// admin may delete.
func (s *CarService) Delete(ctx context.Context, id, callerID int64, callerRole models.RoleType) error {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if car.LenderID != callerID && callerRole != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	images, err := s.imageRepo.GetByCarID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.carRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Image rows cascade with the car; the stored files are removed here.
	for _, image := range images {
		if delErr := s.storage.DeleteFile(image.PublicID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("publicId", image.PublicID).Msg("Failed to delete car image file")
		}
	}

	return nil
}
