package models

import (
	"time"
)

// Category defines the car category model based on the 'categories' table
type Category struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

// Car defines the car model based on the 'cars' table
type Car struct {
	ID                 int64              `json:"id" db:"id"`
	LenderID           int64              `json:"lenderId" db:"lender_id"`
	CategoryID         int64              `json:"categoryId" db:"category_id"`
	Title              string             `json:"title" db:"title"`
	Brand              string             `json:"brand" db:"brand"`
	Model              string             `json:"model" db:"model"`
	Year               int                `json:"year" db:"year"`
	Description        *string            `json:"description,omitempty" db:"description"`
	PricePerDay        float64            `json:"pricePerDay" db:"price_per_day"`
	LocationCity       string             `json:"locationCity" db:"location_city"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus" db:"availability_status"`
	CreatedAt          time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" db:"updated_at"`

	Lender        *User      `json:"lender,omitempty"`   // Relation, no db tag
	Category      *Category  `json:"category,omitempty"` // Relation, no db tag
	Images        []CarImage `json:"images,omitempty"`   // Relation, no db tag
	AverageRating *float64   `json:"averageRating,omitempty"`
	ReviewCount   int64      `json:"reviewCount,omitempty"`
}

// CarImage defines the car image model based on the 'car_images' table.
// At most one image per car has IsMain set.
type CarImage struct {
	ID         int64     `json:"id" db:"id"`
	CarID      int64     `json:"carId" db:"car_id"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	PublicID   string    `json:"-" db:"public_id"`
	IsMain     bool      `json:"isMain" db:"is_main"`
	ImageOrder int       `json:"imageOrder" db:"image_order"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Review defines the review model based on the 'reviews' table
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CarID     int64     `json:"carId" db:"car_id"`
	LenderID  int64     `json:"lenderId" db:"lender_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Reviewer *User `json:"reviewer,omitempty"` // Relation, no db tag
}
