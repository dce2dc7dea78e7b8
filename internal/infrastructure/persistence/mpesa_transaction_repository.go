package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhohoweb/shoe-app/internal/domain/payment"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// GormMpesaTransactionRepository implements MpesaTransactionRepository using GORM
type GormMpesaTransactionRepository struct {
	db *gorm.DB
}

// NewGormMpesaTransactionRepository creates a new GormMpesaTransactionRepository
func NewGormMpesaTransactionRepository(db *gorm.DB) *GormMpesaTransactionRepository {
	return &GormMpesaTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormMpesaTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.MpesaTransaction, error) {
	var tx payment.MpesaTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByCheckoutRequestID finds a transaction by the gateway's correlation key
func (r *GormMpesaTransactionRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*payment.MpesaTransaction, error) {
	var tx payment.MpesaTransaction
	if err := r.db.WithContext(ctx).
		First(&tx, "checkout_request_id = ?", checkoutRequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByOrder finds all transactions attached to an order
func (r *GormMpesaTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]payment.MpesaTransaction, error) {
	var txs []payment.MpesaTransaction
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindAll finds all transactions matching the filter
func (r *GormMpesaTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.MpesaTransaction, error) {
	var txs []payment.MpesaTransaction
	query := applyFilter(r.db.WithContext(ctx).Model(&payment.MpesaTransaction{}),
		filter, "phone", "mpesa_receipt_number", "checkout_request_id")
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByStatus finds transactions in a lifecycle state
func (r *GormMpesaTransactionRepository) FindByStatus(ctx context.Context, status payment.TransactionStatus, filter shared.Filter) ([]payment.MpesaTransaction, error) {
	var txs []payment.MpesaTransaction
	query := applyFilter(r.db.WithContext(ctx).
		Model(&payment.MpesaTransaction{}).
		Where("status = ?", status), filter, "phone", "mpesa_receipt_number")
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Save creates or updates a transaction
func (r *GormMpesaTransactionRepository) Save(ctx context.Context, transaction *payment.MpesaTransaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

// Count counts transactions matching the filter
func (r *GormMpesaTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&payment.MpesaTransaction{}),
		filter, "phone", "mpesa_receipt_number")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts transactions per lifecycle state
func (r *GormMpesaTransactionRepository) CountByStatus(ctx context.Context, status payment.TransactionStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payment.MpesaTransaction{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormMpesaTransactionRepository implements MpesaTransactionRepository
var _ payment.MpesaTransactionRepository = (*GormMpesaTransactionRepository)(nil)
