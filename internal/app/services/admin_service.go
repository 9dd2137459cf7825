package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/apperrors"
	"github.com/eren/driveshare/internal/pkg/helpers"
)

// AdminService handles administrative user management
type AdminService struct {
	userRepo  repositories.IUserRepository
	tokenRepo repositories.ITokenRepository
	logger    zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// ListUsers returns users filtered by role and account status
func (s *AdminService) ListUsers(ctx context.Context, role, status string, page, size int) (*dto.UserListResponse, error) {
	users, total, err := s.userRepo.GetAll(ctx, role, status, page, size)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.FromUser(user))
	}

	return &dto.UserListResponse{
		Users:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetUser returns a single user
func (s *AdminService) GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromUser(user)
	return &resp, nil
}

// ChangeRole changes a user's role
func (s *AdminService) ChangeRole(ctx context.Context, userID int64, role models.RoleType) (*dto.UserResponse, error) {
	if !models.ValidRole(role) {
		return nil, apperrors.NewBadRequestError("unknown role")
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", userID).Str("role", string(role)).Msg("User role changed")
	return s.GetUser(ctx, userID)
}

// ChangeStatus changes a user's account status. Deactivation revokes any
// active refresh token.
func (s *AdminService) ChangeStatus(ctx context.Context, userID int64, status models.AccountStatus) (*dto.UserResponse, error) {
	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		return nil, err
	}

	if status == models.AccountInactive {
		if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Int64("userId", userID).Msg("Failed to revoke refresh token on deactivation")
		}
	}

	s.logger.Info().Int64("userId", userID).Str("status", string(status)).Msg("User status changed")
	return s.GetUser(ctx, userID)
}

// DeleteUser removes a user permanently
func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("userId", userID).Msg("User deleted")
	return nil
}
