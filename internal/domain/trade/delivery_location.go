package trade

import (
	"github.com/shopspring/decimal"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// DeliveryLocation is a city or area the shop delivers to, with its fee.
type DeliveryLocation struct {
	shared.BaseEntity
	Name     string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Fee      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DeliveryLocation) TableName() string {
	return "delivery_locations"
}

// NewDeliveryLocation creates an active delivery location
func NewDeliveryLocation(name string, fee decimal.Decimal) (*DeliveryLocation, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if fee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Delivery fee cannot be negative")
	}

	return &DeliveryLocation{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Fee:        fee,
		IsActive:   true,
	}, nil
}

// UpdateFee changes the delivery fee
func (l *DeliveryLocation) UpdateFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Delivery fee cannot be negative")
	}
	l.Fee = fee
	return nil
}
