package trade

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// validOrderTransitions lists the allowed fulfilment state changes
var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// Order is a customer purchase. The tracking number doubles as the
// account reference sent to the payment gateway.
type Order struct {
	shared.BaseAggregateRoot
	TrackingNumber string          `gorm:"type:varchar(10);not null;uniqueIndex"`
	CustomerName   string          `gorm:"type:varchar(255);not null"`
	CustomerEmail  string          `gorm:"type:varchar(255)"`
	CustomerPhone  string          `gorm:"type:varchar(20);not null;index"`
	Address        string          `gorm:"type:varchar(512);not null"`
	City           string          `gorm:"type:varchar(255);not null"`
	DeliveryFee    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	MpesaCode      string          `gorm:"type:varchar(20)"`
	Notes          string          `gorm:"type:text"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order with a fresh tracking number.
// Items must be attached through AddItem before the order is saved.
func NewOrder(customerName, customerPhone, customerEmail, address, city string, deliveryFee decimal.Decimal) (*Order, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	if customerPhone == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer phone is required")
	}
	if address == "" || city == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Delivery address and city are required")
	}
	if deliveryFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Delivery fee cannot be negative")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TrackingNumber:    GenerateTrackingNumber(),
		CustomerName:      customerName,
		CustomerEmail:     customerEmail,
		CustomerPhone:     customerPhone,
		Address:           address,
		City:              city,
		DeliveryFee:       deliveryFee,
		Total:             deliveryFee,
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
	}, nil
}

// AddItem appends a line item and folds its subtotal into the total
func (o *Order) AddItem(item OrderItem) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Items can only be added to pending orders")
	}

	o.Items = append(o.Items, item)
	o.Total = o.Total.Add(item.Subtotal())
	o.UpdatedAt = time.Now()
	return nil
}

// UpdateStatus moves the order through the fulfilment state machine
func (o *Order) UpdateStatus(status OrderStatus) error {
	if status == o.Status {
		return nil
	}

	allowed, ok := validOrderTransitions[o.Status]
	if !ok {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	for _, next := range allowed {
		if next == status {
			o.Status = status
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("INVALID_TRANSITION",
		"Cannot change order from "+string(o.Status)+" to "+string(status))
}

// MarkPaid records a successful payment. Calling it again with the
// same receipt is a no-op; a different receipt on a paid order fails.
func (o *Order) MarkPaid(mpesaCode string) error {
	if mpesaCode == "" {
		return shared.NewDomainError("INVALID_RECEIPT", "Payment receipt is required")
	}
	if o.PaymentStatus == PaymentStatusPaid {
		if o.MpesaCode == mpesaCode {
			return nil
		}
		return shared.NewDomainError("ALREADY_PAID", "Order is already paid with a different receipt")
	}

	o.PaymentStatus = PaymentStatusPaid
	o.MpesaCode = mpesaCode
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// MarkPaymentFailed records a failed payment attempt. A paid order
// never transitions back to failed.
func (o *Order) MarkPaymentFailed() error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Paid order cannot be marked as failed")
	}

	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// IsPaid reports whether payment completed
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// IsPurgeable reports whether the archiving job may remove the order
func (o *Order) IsPurgeable() bool {
	return (o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled) &&
		o.PaymentStatus == PaymentStatusPaid
}

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTrackingNumber returns a 6-letter uppercase tracking code
func GenerateTrackingNumber() string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(trackingAlphabet))))
		if err != nil {
			panic(err)
		}
		sb.WriteByte(trackingAlphabet[n.Int64()])
	}
	return sb.String()
}
