package dto

import (
	"github.com/eren/driveshare/internal/app/models"
)

// CreateAddressRequest represents an address creation request
type CreateAddressRequest struct {
	Street     string  `json:"street" binding:"required"`
	City       string  `json:"city" binding:"required"`
	State      *string `json:"state"`
	PostalCode string  `json:"postalCode" binding:"required"`
	Country    string  `json:"country" binding:"required"`
	IsDefault  bool    `json:"isDefault"`
}

// UpdateAddressRequest represents an address update request
type UpdateAddressRequest struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
	IsDefault  *bool   `json:"isDefault"`
}

// AddressResponse represents address information
type AddressResponse struct {
	ID         int64   `json:"id"`
	Street     string  `json:"street"`
	City       string  `json:"city"`
	State      *string `json:"state,omitempty"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	IsDefault  bool    `json:"isDefault"`
}

// FromAddress converts a models.Address to an AddressResponse
func FromAddress(address *models.Address) AddressResponse {
	if address == nil {
		return AddressResponse{}
	}
	return AddressResponse{
		ID:         address.ID,
		Street:     address.Street,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		IsDefault:  address.IsDefault,
	}
}
