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

// UserController handles profile operations for the authenticated user.
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile returns the caller's profile.
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)

	resp, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// UpdateProfile updates the caller's profile fields.
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// UploadProfileImage replaces the caller's profile image.
func (c *UserController) UploadProfileImage(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("image file is required"))
		return
	}

	resp, err := c.userService.UploadProfileImage(ctx.Request.Context(), userID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// DeactivateAccount soft-deletes the caller's account.
func (c *UserController) DeactivateAccount(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)

	if err := c.userService.DeactivateAccount(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Account deactivated"})
}
