package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/middleware"
)

// AddressController handles the caller's saved addresses.
type AddressController struct {
	addressService *services.AddressService
	logger         zerolog.Logger
}

// NewAddressController creates a new AddressController
func NewAddressController(addressService *services.AddressService, logger zerolog.Logger) *AddressController {
	return &AddressController{
		addressService: addressService,
		logger:         logger,
	}
}

// Create saves a new address for the caller.
func (c *AddressController) Create(ctx *gin.Context) {
	var req dto.CreateAddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.addressService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// GetAll lists the caller's addresses, default first.
func (c *AddressController) GetAll(ctx *gin.Context) {
	resp, err := c.addressService.GetAll(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Update edits one of the caller's addresses.
func (c *AddressController) Update(ctx *gin.Context) {
	addressID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateAddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.addressService.Update(ctx.Request.Context(), addressID, middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Delete removes one of the caller's addresses.
func (c *AddressController) Delete(ctx *gin.Context) {
	addressID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.addressService.Delete(ctx.Request.Context(), addressID, middleware.CurrentUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Address deleted"})
}
