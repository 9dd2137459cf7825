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

// AdminController handles administrative user management
type AdminController struct {
	adminService *services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// ListUsers lists accounts, optionally filtered by role or status.
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.adminService.ListUsers(ctx.Request.Context(), ctx.Query("role"), ctx.Query("status"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetUser returns a single account.
func (c *AdminController) GetUser(ctx *gin.Context) {
	userID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.adminService.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ChangeRole updates a user's role.
func (c *AdminController) ChangeRole(ctx *gin.Context) {
	userID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.adminService.ChangeRole(ctx.Request.Context(), userID, req.Role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ChangeStatus activates or deactivates a user account.
func (c *AdminController) ChangeStatus(ctx *gin.Context) {
	userID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.adminService.ChangeStatus(ctx.Request.Context(), userID, req.AccountStatus)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// DeleteUser permanently removes a user account.
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	userID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.adminService.DeleteUser(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "User deleted"})
}
