package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/filestorage"
)

// UserService handles user profile operations
type UserService struct {
	userRepo repositories.IUserRepository
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

// GetProfile returns the profile of a user
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromUser(user)
	return &resp, nil
}

// UpdateProfile updates the profile of a user
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, req.Name); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// UploadProfileImage stores a new profile image and replaces the old one
func (s *UserService) UploadProfileImage(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.SaveFile(fileHeader, "profiles")
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateProfileImage(ctx, userID, &stored.URL); err != nil {
		if delErr := s.storage.DeleteFile(stored.PublicID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("publicId", stored.PublicID).Msg("Failed to clean up orphaned profile image")
		}
		return nil, err
	}

	if user.ProfileImage != nil {
		if delErr := s.storage.DeleteFile(*user.ProfileImage); delErr != nil {
			s.logger.Warn().Err(delErr).Msg("Failed to delete previous profile image")
		}
	}

	return s.GetProfile(ctx, userID)
}

// DeactivateAccount soft-deletes the caller's account
func (s *UserService) DeactivateAccount(ctx context.Context, userID int64) error {
	return s.userRepo.UpdateStatus(ctx, userID, models.AccountInactive)
}
