package dto

import (
	"time"

	"github.com/eren/driveshare/internal/app/models"
)

// CreateCarRequest represents a car creation request
type CreateCarRequest struct {
	CategoryID   int64   `json:"categoryId" binding:"required,min=1"`
	Title        string  `json:"title" binding:"required"`
	Brand        string  `json:"brand" binding:"required"`
	Model        string  `json:"model" binding:"required"`
	Year         int     `json:"year" binding:"required,min=1950,max=2100"`
	Description  *string `json:"description"`
	PricePerDay  float64 `json:"pricePerDay" binding:"required,gt=0"`
	LocationCity string  `json:"locationCity" binding:"required"`
}

// UpdateCarRequest represents a car update request. Nil fields are left unchanged.
type UpdateCarRequest struct {
	CategoryID         *int64                     `json:"categoryId" binding:"omitempty,min=1"`
	Title              *string                    `json:"title"`
	Brand              *string                    `json:"brand"`
	Model              *string                    `json:"model"`
	Year               *int                       `json:"year" binding:"omitempty,min=1950,max=2100"`
	Description        *string                    `json:"description"`
	PricePerDay        *float64                   `json:"pricePerDay" binding:"omitempty,gt=0"`
	LocationCity       *string                    `json:"locationCity"`
	AvailabilityStatus *models.AvailabilityStatus `json:"availabilityStatus" binding:"omitempty,oneof=available rented maintenance unavailable"`
}

// CarFilter collects list filters parsed from query parameters
type CarFilter struct {
	Brand        string
	Model        string
	City         string
	CategoryID   int64
	LenderID     int64
	Status       string
	MinYear      int
	MaxYear      int
	MinPrice     float64
	MaxPrice     float64
	SortBy       string
	SortOrder    string
}

// CarImageResponse represents a single car image
type CarImageResponse struct {
	ID         int64  `json:"id"`
	ImageURL   string `json:"imageUrl"`
	IsMain     bool   `json:"isMain"`
	ImageOrder int    `json:"imageOrder"`
}

// CarResponse represents car information
type CarResponse struct {
	ID                 int64                     `json:"id"`
	LenderID           int64                     `json:"lenderId"`
	LenderName         string                    `json:"lenderName,omitempty"`
	CategoryID         int64                     `json:"categoryId"`
	CategoryName       string                    `json:"categoryName,omitempty"`
	Title              string                    `json:"title"`
	Brand              string                    `json:"brand"`
	Model              string                    `json:"model"`
	Year               int                       `json:"year"`
	Description        *string                   `json:"description,omitempty"`
	PricePerDay        float64                   `json:"pricePerDay"`
	LocationCity       string                    `json:"locationCity"`
	AvailabilityStatus models.AvailabilityStatus `json:"availabilityStatus"`
	Images             []CarImageResponse        `json:"images,omitempty"`
	AverageRating      *float64                  `json:"averageRating,omitempty"`
	ReviewCount        int64                     `json:"reviewCount"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// FromCar converts a models.Car to a CarResponse
func FromCar(car *models.Car) CarResponse {
	if car == nil {
		return CarResponse{}
	}

	resp := CarResponse{
		ID:                 car.ID,
		LenderID:           car.LenderID,
		CategoryID:         car.CategoryID,
		Title:              car.Title,
		Brand:              car.Brand,
		Model:              car.Model,
		Year:               car.Year,
		Description:        car.Description,
		PricePerDay:        car.PricePerDay,
		LocationCity:       car.LocationCity,
		AvailabilityStatus: car.AvailabilityStatus,
		AverageRating:      car.AverageRating,
		ReviewCount:        car.ReviewCount,
		CreatedAt:          car.CreatedAt,
	}

	if car.Lender != nil {
		resp.LenderName = car.Lender.Name
	}
	if car.Category != nil {
		resp.CategoryName = car.Category.Name
	}
	for _, img := range car.Images {
		resp.Images = append(resp.Images, CarImageResponse{
			ID:         img.ID,
			ImageURL:   img.ImageURL,
			IsMain:     img.IsMain,
			ImageOrder: img.ImageOrder,
		})
	}

	return resp
}

// CarListResponse represents a paginated car listing
type CarListResponse struct {
	Cars       []CarResponse  `json:"cars"`
	Pagination PaginationInfo `json:"pagination"`
}

// UpdateCarImageRequest represents an image flag/order update
type UpdateCarImageRequest struct {
	IsMain     *bool `json:"isMain"`
	ImageOrder *int  `json:"imageOrder" binding:"omitempty,min=0"`
}

// ReorderCarImagesRequest represents a bulk image reorder request
type ReorderCarImagesRequest struct {
	ImageIDs []int64 `json:"imageIds" binding:"required,min=1"`
}
