package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/filestorage"
)

const maxImagesPerCar = 10

// CarImageService handles car image operations. A car holds at most ten
// images and exactly one of them is main while any exist.
type CarImageService struct {
	carRepo   repositories.ICarRepository
	imageRepo repositories.ICarImageRepository
	storage   filestorage.FileStorage
	logger    zerolog.Logger
}

// NewCarImageService creates a new CarImageService
func NewCarImageService(
	carRepo repositories.ICarRepository,
	imageRepo repositories.ICarImageRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *CarImageService {
	return &CarImageService{
		carRepo:   carRepo,
		imageRepo: imageRepo,
		storage:   storage,
		logger:    logger,
	}
}

func (s *CarImageService) authorizeCar(ctx context.Context, carID, callerID int64, callerRole models.RoleType) (*models.Car, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.LenderID != callerID && callerRole != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}
	return car, nil
}

// Upload stores one or more images for a car. The first image of a car
// becomes main automatically.
func (s *CarImageService) Upload(ctx context.Context, carID, callerID int64, callerRole models.RoleType, files []*multipart.FileHeader) ([]dto.CarImageResponse, error) {
	if _, err := s.authorizeCar(ctx, carID, callerID, callerRole); err != nil {
		return nil, err
	}

	count, err := s.imageRepo.CountByCarID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if count+int64(len(files)) > maxImagesPerCar {
		return nil, apperrors.ErrImageLimit
	}

	var responses []dto.CarImageResponse
	for i, fileHeader := range files {
		stored, err := s.storage.SaveFile(fileHeader, "cars")
		if err != nil {
			return nil, err
		}

		image := &models.CarImage{
			CarID:      carID,
			ImageURL:   stored.URL,
			PublicID:   stored.PublicID,
			IsMain:     count == 0 && i == 0,
			ImageOrder: int(count) + i,
		}

		if err := s.imageRepo.Create(ctx, image); err != nil {
			if delErr := s.storage.DeleteFile(stored.PublicID); delErr != nil {
				s.logger.Warn().Err(delErr).Str("publicId", stored.PublicID).Msg("Failed to clean up orphaned image file")
			}
			return nil, err
		}

		responses = append(responses, dto.CarImageResponse{
			ID:         image.ID,
			ImageURL:   image.ImageURL,
			IsMain:     image.IsMain,
			ImageOrder: image.ImageOrder,
		})
	}

	return responses, nil
}

// Update changes the main flag or order of an image. Promoting an image to
// main demotes the current main first.
func (s *CarImageService) Update(ctx context.Context, carID, imageID, callerID int64, callerRole models.RoleType, req *dto.UpdateCarImageRequest) (*dto.CarImageResponse, error) {
	if _, err := s.authorizeCar(ctx, carID, callerID, callerRole); err != nil {
		return nil, err
	}

	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.CarID != carID {
		return nil, apperrors.ErrImageNotFound
	}

	if req.ImageOrder != nil {
		if err := s.imageRepo.UpdateOrder(ctx, imageID, *req.ImageOrder); err != nil {
			return nil, err
		}
		image.ImageOrder = *req.ImageOrder
	}

	if req.IsMain != nil && *req.IsMain && !image.IsMain {
		if err := s.imageRepo.UnsetMainForCar(ctx, carID); err != nil {
			return nil, err
		}
		if err := s.imageRepo.SetMain(ctx, imageID); err != nil {
			return nil, err
		}
		image.IsMain = true
	}

	return &dto.CarImageResponse{
		ID:         image.ID,
		ImageURL:   image.ImageURL,
		IsMain:     image.IsMain,
		ImageOrder: image.ImageOrder,
	}, nil
}

// Reorder assigns ascending orders to the given image IDs
func (s *CarImageService) Reorder(ctx context.Context, carID, callerID int64, callerRole models.RoleType, imageIDs []int64) error {
	if _, err := s.authorizeCar(ctx, carID, callerID, callerRole); err != nil {
		return err
	}

	for order, imageID := range imageIDs {
		image, err := s.imageRepo.GetByID(ctx, imageID)
		if err != nil {
			return err
		}
		if image.CarID != carID {
			return apperrors.ErrImageNotFound
		}
		if err := s.imageRepo.UpdateOrder(ctx, imageID, order); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes an image. When the main image is deleted the remaining image
// with the lowest order is promoted.
func (s *CarImageService) Delete(ctx context.Context, carID, imageID, callerID int64, callerRole models.RoleType) error {
	if _, err := s.authorizeCar(ctx, carID, callerID, callerRole); err != nil {
		return err
	}

	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image.CarID != carID {
		return apperrors.ErrImageNotFound
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return err
	}

	if delErr := s.storage.DeleteFile(image.PublicID); delErr != nil {
		s.logger.Warn().Err(delErr).Str("publicId", image.PublicID).Msg("Failed to delete image file")
	}

	if image.IsMain {
		next, err := s.imageRepo.GetFirstForCar(ctx, carID)
		if err != nil {
			if errors.Is(err, apperrors.ErrImageNotFound) {
				return nil
			}
			return err
		}
		if err := s.imageRepo.SetMain(ctx, next.ID); err != nil {
			return err
		}
	}

	return nil
}
