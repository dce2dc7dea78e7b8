package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// MpesaTransactionRepository defines the interface for transaction persistence
type MpesaTransactionRepository interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*MpesaTransaction, error)

	// FindByCheckoutRequestID finds a transaction by the gateway's
	// correlation key
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*MpesaTransaction, error)

	// FindByOrder finds all transactions attached to an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]MpesaTransaction, error)

	// FindAll finds all transactions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]MpesaTransaction, error)

	// FindByStatus finds transactions in a lifecycle state
	FindByStatus(ctx context.Context, status TransactionStatus, filter shared.Filter) ([]MpesaTransaction, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, transaction *MpesaTransaction) error

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts transactions per lifecycle state
	CountByStatus(ctx context.Context, status TransactionStatus) (int64, error)
}
