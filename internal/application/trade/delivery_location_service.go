package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// DeliveryLocationService manages the towns the shop delivers to
type DeliveryLocationService struct {
	locationRepo trade.DeliveryLocationRepository
}

// NewDeliveryLocationService creates a new DeliveryLocationService
func NewDeliveryLocationService(locationRepo trade.DeliveryLocationRepository) *DeliveryLocationService {
	return &DeliveryLocationService{locationRepo: locationRepo}
}

// Create adds a delivery location
func (s *DeliveryLocationService) Create(ctx context.Context, req DeliveryLocationRequest) (*DeliveryLocationResponse, error) {
	if _, err := s.locationRepo.FindByName(ctx, req.Name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Delivery location already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	location, err := trade.NewDeliveryLocation(req.Name, req.Fee)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	resp := ToDeliveryLocationResponse(location)
	return &resp, nil
}

// List returns all delivery locations
func (s *DeliveryLocationService) List(ctx context.Context) ([]DeliveryLocationResponse, error) {
	locations, err := s.locationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]DeliveryLocationResponse, len(locations))
	for i := range locations {
		responses[i] = ToDeliveryLocationResponse(&locations[i])
	}
	return responses, nil
}

// Update changes a delivery location's name, fee, or availability
func (s *DeliveryLocationService) Update(ctx context.Context, id uuid.UUID, req DeliveryLocationRequest) (*DeliveryLocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	location.Name = req.Name
	if err := location.UpdateFee(req.Fee); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	resp := ToDeliveryLocationResponse(location)
	return &resp, nil
}

// Delete removes a delivery location
func (s *DeliveryLocationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.locationRepo.Delete(ctx, id)
}
