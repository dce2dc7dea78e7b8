package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// CheckoutItemRequest is one cart line submitted at checkout. The
// client never controls the price; it is read from the catalog.
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Color     string    `json:"color" binding:"max=50"`
	Size      string    `json:"size" binding:"max=20"`
}

// CheckoutRequest represents a storefront order submission
type CheckoutRequest struct {
	CustomerName  string                `json:"customer_name" binding:"required,min=1,max=255"`
	CustomerEmail string                `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone string                `json:"customer_phone" binding:"required,min=9,max=15"`
	Address       string                `json:"address" binding:"required,max=512"`
	LocationID    uuid.UUID             `json:"location_id" binding:"required"`
	Notes         string                `json:"notes" binding:"max=1000"`
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CheckoutResponse is the result of placing an order. STKSent is false
// when the payment prompt could not be delivered; the order is still
// created and can be paid later.
type CheckoutResponse struct {
	Order      OrderResponse `json:"order"`
	STKSent    bool          `json:"stk_sent"`
	STKMessage string        `json:"stk_message,omitempty"`
}

// UpdateOrderStatusRequest moves an order through the fulfilment states
type UpdateOrderStatusRequest struct {
	Status       string `json:"status" binding:"required,oneof=pending processing shipped completed cancelled"`
	SendDispatch bool   `json:"send_dispatch"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Color       string          `json:"color,omitempty"`
	Size        string          `json:"size,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	TrackingNumber string              `json:"tracking_number"`
	CustomerName   string              `json:"customer_name"`
	CustomerEmail  string              `json:"customer_email,omitempty"`
	CustomerPhone  string              `json:"customer_phone"`
	Address        string              `json:"address"`
	City           string              `json:"city"`
	DeliveryFee    decimal.Decimal     `json:"delivery_fee"`
	Total          decimal.Decimal     `json:"total"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	MpesaCode      string              `json:"mpesa_code,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending processing shipped completed cancelled"`
	Phone    string `form:"phone"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DeliveryLocationRequest creates or updates a delivery location
type DeliveryLocationRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=255"`
	Fee      decimal.Decimal `json:"fee" binding:"required"`
	IsActive *bool           `json:"is_active"`
}

// DeliveryLocationResponse represents a delivery location in API responses
type DeliveryLocationResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Fee      decimal.Decimal `json:"fee"`
	IsActive bool            `json:"is_active"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Color:       item.Color,
			Size:        item.Size,
			Subtotal:    item.Subtotal(),
		}
	}

	return OrderResponse{
		ID:             o.ID,
		TrackingNumber: o.TrackingNumber,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		Address:        o.Address,
		City:           o.City,
		DeliveryFee:    o.DeliveryFee,
		Total:          o.Total,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		MpesaCode:      o.MpesaCode,
		Notes:          o.Notes,
		Items:          items,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToDeliveryLocationResponse converts a domain DeliveryLocation
func ToDeliveryLocationResponse(l *trade.DeliveryLocation) DeliveryLocationResponse {
	return DeliveryLocationResponse{
		ID:       l.ID,
		Name:     l.Name,
		Fee:      l.Fee,
		IsActive: l.IsActive,
	}
}
