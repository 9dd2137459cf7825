package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/middleware"
	"github.com/eren/driveshare/internal/pkg/apperrors"
)

// CarImageController handles image management for car listings.
type CarImageController struct {
	imageService *services.CarImageService
	logger       zerolog.Logger
}

// NewCarImageController creates a new CarImageController
func NewCarImageController(imageService *services.CarImageService, logger zerolog.Logger) *CarImageController {
	return &CarImageController{
		imageService: imageService,
		logger:       logger,
	}
}

// Upload attaches one or more images to a car via multipart form field "images".
func (c *CarImageController) Upload(ctx *gin.Context) {
	carID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("multipart form with images is required"))
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("at least one image file is required"))
		return
	}

	resp, err := c.imageService.Upload(ctx.Request.Context(), carID, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), files)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// Update changes an image's main flag or display order.
func (c *CarImageController) Update(ctx *gin.Context) {
	carID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	imageID, err := idParam(ctx, "imageId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateCarImageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.imageService.Update(ctx.Request.Context(), carID, imageID, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Reorder rewrites the display order of all images of a car.
func (c *CarImageController) Reorder(ctx *gin.Context) {
	carID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ReorderCarImagesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.imageService.Reorder(ctx.Request.Context(), carID, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), req.ImageIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Images reordered"})
}

// Delete removes an image; deleting the main image promotes the next one.
func (c *CarImageController) Delete(ctx *gin.Context) {
	carID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	imageID, err := idParam(ctx, "imageId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.imageService.Delete(ctx.Request.Context(), carID, imageID, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Image deleted"})
}
