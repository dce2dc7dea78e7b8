package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// OrderItem is a line of an order. Name and Price are snapshots taken
// at checkout so later catalog edits do not change past orders.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	Color       string          `gorm:"type:varchar(50)"`
	Size        string          `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem snapshots a product line for an order
func NewOrderItem(productID uuid.UUID, productName string, price decimal.Decimal, quantity int, color, size string) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product reference is required")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product name is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}

	return &OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Quantity:    quantity,
		Color:       color,
		Size:        size,
	}, nil
}

// Subtotal returns price times quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
