package dto

import (
	"time"

	"github.com/eren/driveshare/internal/app/models"
)

// CreateReviewRequest represents a review creation request
type CreateReviewRequest struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

// UpdateReviewRequest represents a review update request
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

// ReviewResponse represents review information
type ReviewResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	ReviewerName string    `json:"reviewerName,omitempty"`
	CarID        int64     `json:"carId"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromReview converts a models.Review to a ReviewResponse
func FromReview(review *models.Review) ReviewResponse {
	if review == nil {
		return ReviewResponse{}
	}

	resp := ReviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		CarID:     review.CarID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if review.Reviewer != nil {
		resp.ReviewerName = review.Reviewer.Name
	}
	return resp
}

// ReviewListResponse represents the reviews of a car with the aggregate rating
type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating *float64         `json:"averageRating,omitempty"`
	Pagination    PaginationInfo   `json:"pagination"`
}
