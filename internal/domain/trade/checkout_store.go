package trade

import (
	"context"

	"github.com/google/uuid"
)

// CheckoutStore persists a new order and its stock decrements as one
// atomic unit. If any product has fewer units than requested, nothing
// is written and the call fails with shared.ErrInsufficientStock.
type CheckoutStore interface {
	PlaceOrder(ctx context.Context, order *Order, decrements map[uuid.UUID]int) error
}
