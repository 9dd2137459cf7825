package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/middleware"
	"github.com/eren/driveshare/internal/pkg/helpers"
)

// CarController handles car listing operations
type CarController struct {
	carService *services.CarService
	logger     zerolog.Logger
}

// NewCarController creates a new CarController
func NewCarController(carService *services.CarService, logger zerolog.Logger) *CarController {
	return &CarController{
		carService: carService,
		logger:     logger,
	}
}

// Create publishes a new car listing owned by the calling lender.
func (c *CarController) Create(ctx *gin.Context) {
	lenderID := middleware.CurrentUserID(ctx)

	var req dto.CreateCarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.carService.Create(ctx.Request.Context(), lenderID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// GetByID returns a single car with its lender, category, images and rating.
func (c *CarController) GetByID(ctx *gin.Context) {
	id, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.carService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetAll lists cars with optional filters, sorting and pagination.
func (c *CarController) GetAll(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := carFilterFromQuery(ctx)

	resp, err := c.carService.GetAll(ctx.Request.Context(), filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Update modifies a car listing. Only the owning lender or an admin may call it.
func (c *CarController) Update(ctx *gin.Context) {
	id, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateCarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.carService.Update(ctx.Request.Context(), id, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Delete removes a car listing and its stored images.
func (c *CarController) Delete(ctx *gin.Context) {
	id, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.carService.Delete(ctx.Request.Context(), id, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Car deleted successfully"})
}

func carFilterFromQuery(ctx *gin.Context) dto.CarFilter {
	filter := dto.CarFilter{
		Brand:     ctx.Query("brand"),
		Model:     ctx.Query("model"),
		City:      ctx.Query("city"),
		Status:    ctx.Query("status"),
		SortBy:    ctx.Query("sortBy"),
		SortOrder: ctx.Query("sortOrder"),
	}

	if v, err := strconv.ParseInt(ctx.Query("categoryId"), 10, 64); err == nil {
		filter.CategoryID = v
	}
	if v, err := strconv.ParseInt(ctx.Query("lenderId"), 10, 64); err == nil {
		filter.LenderID = v
	}
	if v, err := strconv.Atoi(ctx.Query("minYear")); err == nil {
		filter.MinYear = v
	}
	if v, err := strconv.Atoi(ctx.Query("maxYear")); err == nil {
		filter.MaxYear = v
	}
	if v, err := strconv.ParseFloat(ctx.Query("minPrice"), 64); err == nil {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseFloat(ctx.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = v
	}

	return filter
}
