package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhohoweb/shoe-app/internal/domain/catalog"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// GormCheckoutStore implements CheckoutStore using GORM
type GormCheckoutStore struct {
	db *gorm.DB
}

// NewGormCheckoutStore creates a new GormCheckoutStore
func NewGormCheckoutStore(db *gorm.DB) *GormCheckoutStore {
	return &GormCheckoutStore{db: db}
}

// PlaceOrder writes the order, its items, and all stock decrements in
// one transaction. A failed decrement rolls everything back, so a
// checkout never leaves an order without its stock having moved.
func (s *GormCheckoutStore) PlaceOrder(ctx context.Context, order *trade.Order, decrements map[uuid.UUID]int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, quantity := range decrements {
			if quantity <= 0 {
				return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
			}

			result := tx.Model(&catalog.Product{}).
				Where("id = ? AND stock >= ?", productID, quantity).
				Update("stock", gorm.Expr("stock - ?", quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&catalog.Product{}).
					Where("id = ?", productID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return shared.ErrNotFound
				}
				return shared.ErrInsufficientStock
			}
		}

		return tx.Save(order).Error
	})
}

// Ensure GormCheckoutStore implements CheckoutStore
var _ trade.CheckoutStore = (*GormCheckoutStore)(nil)
