package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByTrackingNumber finds an order by its tracking number
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders in a fulfilment state
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// FindByPhone finds orders placed with a phone number
	FindByPhone(ctx context.Context, phone string, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// Delete soft-deletes an order
	Delete(ctx context.Context, id uuid.UUID) error

	// PurgeSettled hard-deletes paid orders that were completed or
	// cancelled before the cutoff, returning how many were removed.
	PurgeSettled(ctx context.Context, cutoff time.Time) (int64, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts orders per fulfilment state
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)
}

// DeliveryLocationRepository defines the interface for delivery location persistence
type DeliveryLocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryLocation, error)

	// FindByName finds a location by its exact name
	FindByName(ctx context.Context, name string) (*DeliveryLocation, error)

	// FindActive lists all active locations ordered by name
	FindActive(ctx context.Context) ([]DeliveryLocation, error)

	// FindAll lists all locations
	FindAll(ctx context.Context) ([]DeliveryLocation, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *DeliveryLocation) error

	// Delete deletes a location
	Delete(ctx context.Context, id uuid.UUID) error
}
