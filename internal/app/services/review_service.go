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

// ReviewService handles review operations
type ReviewService struct {
	reviewRepo repositories.IReviewRepository
	carRepo    repositories.ICarRepository
	logger     zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo repositories.IReviewRepository,
	carRepo repositories.ICarRepository,
	logger zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		carRepo:    carRepo,
		logger:     logger,
	}
}

// Create creates a review for a car. Lenders cannot review their own cars.
func (s *ReviewService) Create(ctx context.Context, carID, userID int64, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	if car.LenderID == userID {
		return nil, apperrors.ErrOwnCarReview
	}

	review := &models.Review{
		UserID:   userID,
		CarID:    carID,
		LenderID: car.LenderID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	resp := dto.FromReview(review)
	return &resp, nil
}

// GetByCarID returns the reviews of a car with the average rating
func (s *ReviewService) GetByCarID(ctx context.Context, carID int64, page, size int) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.GetByCarID(ctx, carID, page, size)
	if err != nil {
		return nil, err
	}

	average, err := s.reviewRepo.AverageForCar(ctx, carID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, dto.FromReview(review))
	}

	return &dto.ReviewListResponse{
		Reviews:       responses,
		AverageRating: average,
		Pagination:    helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Update updates a review. Only its author may update.
func (s *ReviewService) Update(ctx context.Context, reviewID, callerID int64, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.UserID != callerID {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = req.Comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	resp := dto.FromReview(review)
	return &resp, nil
}

// Delete removes a review. The author or an admin may delete.
func (s *ReviewService) Delete(ctx context.Context, reviewID, callerID int64, callerRole models.RoleType) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.UserID != callerID && callerRole != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}
