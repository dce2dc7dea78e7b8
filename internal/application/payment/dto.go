package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/muhohoweb/shoe-app/internal/domain/payment"
)

// TransactionResponse represents an M-Pesa transaction in API responses
type TransactionResponse struct {
	ID                 uuid.UUID       `json:"id"`
	OrderID            uuid.UUID       `json:"order_id"`
	CheckoutRequestID  string          `json:"checkout_request_id"`
	MerchantRequestID  string          `json:"merchant_request_id"`
	Phone              string          `json:"phone"`
	Amount             decimal.Decimal `json:"amount"`
	AccountReference   string          `json:"account_reference"`
	Status             string          `json:"status"`
	ResultCode         *int            `json:"result_code,omitempty"`
	ResultDesc         string          `json:"result_desc,omitempty"`
	MpesaReceiptNumber string          `json:"mpesa_receipt_number,omitempty"`
	TransactionDate    *time.Time      `json:"transaction_date,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// TransactionListFilter represents filter options for transaction list
type TransactionListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending completed failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TransactionStats summarises transaction counts and takings
type TransactionStats struct {
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Total     int64 `json:"total"`
}

// CallbackResult reports what a gateway callback changed. Replays and
// unknown correlation keys are acknowledged without touching anything.
type CallbackResult struct {
	Processed         bool   `json:"processed"`
	CheckoutRequestID string `json:"checkout_request_id"`
	ResultCode        int    `json:"result_code"`
	Status            string `json:"status,omitempty"`
}

// STKPushResult is the acknowledgement of an initiated payment prompt
type STKPushResult struct {
	CheckoutRequestID string `json:"checkout_request_id"`
	CustomerMessage   string `json:"customer_message"`
}

// BalanceResponse is the cached account balance handed to the admin UI
type BalanceResponse struct {
	Parameters map[string]interface{} `json:"parameters"`
	ResultDesc string                 `json:"result_desc"`
	FetchedAt  time.Time              `json:"fetched_at"`
}

// ToTransactionResponse converts a domain MpesaTransaction
func ToTransactionResponse(t *payment.MpesaTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                 t.ID,
		OrderID:            t.OrderID,
		CheckoutRequestID:  t.CheckoutRequestID,
		MerchantRequestID:  t.MerchantRequestID,
		Phone:              t.Phone,
		Amount:             t.Amount,
		AccountReference:   t.AccountReference,
		Status:             string(t.Status),
		ResultCode:         t.ResultCode,
		ResultDesc:         t.ResultDesc,
		MpesaReceiptNumber: t.MpesaReceiptNumber,
		TransactionDate:    t.TransactionDate,
		CreatedAt:          t.CreatedAt,
	}
}
