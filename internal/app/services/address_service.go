package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/models"
	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/app/repositories"
	"github.com/eren/driveshare/internal/pkg/apperrors"
)

// AddressService handles address operations
type AddressService struct {
	addressRepo repositories.IAddressRepository
	logger      zerolog.Logger
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo repositories.IAddressRepository, logger zerolog.Logger) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
		logger:      logger,
	}
}

// Create creates a new address for the user
func (s *AddressService) Create(ctx context.Context, userID int64, req *dto.CreateAddressRequest) (*dto.AddressResponse, error) {
	if req.IsDefault {
		if err := s.addressRepo.UnsetDefaultForUser(ctx, userID); err != nil {
			return nil, err
		}
	}

	address := &models.Address{
		UserID:     userID,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}

	resp := dto.FromAddress(address)
	return &resp, nil
}

// GetAll returns the addresses of a user
func (s *AddressService) GetAll(ctx context.Context, userID int64) ([]dto.AddressResponse, error) {
	addresses, err := s.addressRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AddressResponse, 0, len(addresses))
	for _, address := range addresses {
		responses = append(responses, dto.FromAddress(address))
	}

	return responses, nil
}

func (s *AddressService) getOwned(ctx context.Context, addressID, userID int64) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, apperrors.ErrPermissionDenied
	}
	return address, nil
}

// Update updates an address owned by the user
func (s *AddressService) Update(ctx context.Context, addressID, userID int64, req *dto.UpdateAddressRequest) (*dto.AddressResponse, error) {
	address, err := s.getOwned(ctx, addressID, userID)
	if err != nil {
		return nil, err
	}

	if req.Street != nil {
		address.Street = *req.Street
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = req.State
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.IsDefault != nil {
		if *req.IsDefault && !address.IsDefault {
			if err := s.addressRepo.UnsetDefaultForUser(ctx, userID); err != nil {
				return nil, err
			}
		}
		address.IsDefault = *req.IsDefault
	}

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}

	resp := dto.FromAddress(address)
	return &resp, nil
}

// Delete removes an address owned by the user
func (s *AddressService) Delete(ctx context.Context, addressID, userID int64) error {
	if _, err := s.getOwned(ctx, addressID, userID); err != nil {
		return err
	}
	return s.addressRepo.Delete(ctx, addressID)
}
