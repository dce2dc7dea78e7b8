package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID, items included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByTrackingNumber finds an order by its tracking number
func (r *GormOrderRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "tracking_number = ?", trackingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	query := applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}).Preload("Items"),
		filter, "customer_name", "customer_phone", "tracking_number")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds orders in a fulfilment state
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	query := applyFilter(r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Preload("Items").
		Where("status = ?", status), filter, "customer_name", "customer_phone", "tracking_number")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByPhone finds orders placed with a phone number
func (r *GormOrderRepository) FindByPhone(ctx context.Context, phone string, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	query := applyFilter(r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Preload("Items").
		Where("customer_phone = ?", phone), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order together with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Delete soft-deletes an order
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// PurgeSettled hard-deletes paid orders that were completed or
// cancelled before the cutoff. Items go with their orders through the
// ON DELETE CASCADE constraint.
func (r *GormOrderRepository) PurgeSettled(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("status IN ? AND payment_status = ? AND updated_at < ?",
			[]trade.OrderStatus{trade.OrderStatusCompleted, trade.OrderStatusCancelled},
			trade.PaymentStatusPaid, cutoff).
		Delete(&trade.Order{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Order{}),
		filter, "customer_name", "customer_phone", "tracking_number")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts orders per fulfilment state
func (r *GormOrderRepository) CountByStatus(ctx context.Context, status trade.OrderStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)

// GormDeliveryLocationRepository implements DeliveryLocationRepository using GORM
type GormDeliveryLocationRepository struct {
	db *gorm.DB
}

// NewGormDeliveryLocationRepository creates a new GormDeliveryLocationRepository
func NewGormDeliveryLocationRepository(db *gorm.DB) *GormDeliveryLocationRepository {
	return &GormDeliveryLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormDeliveryLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.DeliveryLocation, error) {
	var location trade.DeliveryLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByName finds a location by its exact name
func (r *GormDeliveryLocationRepository) FindByName(ctx context.Context, name string) (*trade.DeliveryLocation, error) {
	var location trade.DeliveryLocation
	if err := r.db.WithContext(ctx).First(&location, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindActive lists all active locations ordered by name
func (r *GormDeliveryLocationRepository) FindActive(ctx context.Context) ([]trade.DeliveryLocation, error) {
	var locations []trade.DeliveryLocation
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FindAll lists all locations
func (r *GormDeliveryLocationRepository) FindAll(ctx context.Context) ([]trade.DeliveryLocation, error) {
	var locations []trade.DeliveryLocation
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormDeliveryLocationRepository) Save(ctx context.Context, location *trade.DeliveryLocation) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// Delete deletes a location
func (r *GormDeliveryLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.DeliveryLocation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDeliveryLocationRepository implements DeliveryLocationRepository
var _ trade.DeliveryLocationRepository = (*GormDeliveryLocationRepository)(nil)
