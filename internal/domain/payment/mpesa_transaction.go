package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// TransactionStatus is the lifecycle state of an M-Pesa transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// MpesaTransaction tracks one STK push from initiation to its gateway
// callback. CheckoutRequestID is the gateway's correlation key.
type MpesaTransaction struct {
	shared.BaseAggregateRoot
	OrderID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	CheckoutRequestID  string            `gorm:"type:varchar(100);not null;uniqueIndex"`
	MerchantRequestID  string            `gorm:"type:varchar(100);not null"`
	Phone              string            `gorm:"type:varchar(20);not null;index"`
	Amount             decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	AccountReference   string            `gorm:"type:varchar(20);not null"`
	Status             TransactionStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ResultCode         *int              `gorm:""`
	ResultDesc         string            `gorm:"type:varchar(255)"`
	MpesaReceiptNumber string            `gorm:"type:varchar(20);index"`
	TransactionDate    *time.Time        `gorm:""`
}

// TableName returns the table name for GORM
func (MpesaTransaction) TableName() string {
	return "mpesa_transactions"
}

// NewMpesaTransaction records a freshly initiated STK push
func NewMpesaTransaction(orderID uuid.UUID, checkoutRequestID, merchantRequestID, phone string, amount decimal.Decimal, accountReference string) (*MpesaTransaction, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order reference is required")
	}
	if checkoutRequestID == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST", "Checkout request ID is required")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	return &MpesaTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		CheckoutRequestID: checkoutRequestID,
		MerchantRequestID: merchantRequestID,
		Phone:             phone,
		Amount:            amount,
		AccountReference:  accountReference,
		Status:            TransactionStatusPending,
	}, nil
}

// IsTerminal reports whether the transaction already received a final result
func (t *MpesaTransaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusFailed
}

// ApplyCallbackResult folds the gateway's STK callback into the
// transaction. A transaction that is already terminal is left exactly
// as it is, so replayed callbacks cannot rewrite history; the second
// return value reports whether the call changed anything.
func (t *MpesaTransaction) ApplyCallbackResult(resultCode int, resultDesc, receiptNumber string, transactionDate *time.Time) (bool, error) {
	if t.IsTerminal() {
		return false, nil
	}

	t.ResultCode = &resultCode
	t.ResultDesc = resultDesc

	if resultCode == 0 {
		if receiptNumber == "" {
			return false, shared.NewDomainError("INVALID_RECEIPT", "Successful callback is missing a receipt number")
		}
		t.Status = TransactionStatusCompleted
		t.MpesaReceiptNumber = receiptNumber
		t.TransactionDate = transactionDate
	} else {
		t.Status = TransactionStatusFailed
	}

	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return true, nil
}
