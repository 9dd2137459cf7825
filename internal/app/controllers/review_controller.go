package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/middleware"
	"github.com/eren/driveshare/internal/pkg/helpers"
)

// ReviewController handles car review operations
type ReviewController struct {
	reviewService *services.ReviewService
	logger        zerolog.Logger
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService *services.ReviewService, logger zerolog.Logger) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		logger:        logger,
	}
}

// Create adds a review to a car. Lenders cannot review their own cars.
func (c *ReviewController) Create(ctx *gin.Context) {
	carID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.reviewService.Create(ctx.Request.Context(), carID, middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// GetByCarID lists a car's reviews with the average rating.
func (c *ReviewController) GetByCarID(ctx *gin.Context) {
	carID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.reviewService.GetByCarID(ctx.Request.Context(), carID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Update edits the caller's own review.
func (c *ReviewController) Update(ctx *gin.Context) {
	reviewID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.reviewService.Update(ctx.Request.Context(), reviewID, middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Delete removes a review. The author or an admin may call it.
func (c *ReviewController) Delete(ctx *gin.Context) {
	reviewID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.reviewService.Delete(ctx.Request.Context(), reviewID, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Review deleted"})
}
