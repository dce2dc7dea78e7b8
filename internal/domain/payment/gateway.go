package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Gateway errors returned by adapter implementations. Adapters wrap
// transport failures with ErrGatewayUnavailable so callers can treat
// them uniformly.
var (
	ErrGatewayUnavailable     = errors.New("payment: gateway temporarily unavailable")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
	ErrGatewayAuthFailed      = errors.New("payment: gateway authentication failed")
)

// STKPushRequest asks the gateway to prompt a customer's phone for payment
type STKPushRequest struct {
	// Phone is the payer MSISDN in 2547XXXXXXXX form
	Phone string
	// Amount is the amount to collect; the gateway only accepts whole units
	Amount decimal.Decimal
	// AccountReference appears on the customer's statement
	AccountReference string
	// Description is a short free-text note for the prompt
	Description string
}

// STKPushResponse is the gateway's acknowledgement of an STK push
type STKPushResponse struct {
	// CheckoutRequestID correlates the asynchronous result callback
	CheckoutRequestID string
	// MerchantRequestID is the gateway's own request identifier
	MerchantRequestID string
	// ResponseCode is "0" when the push was accepted
	ResponseCode string
	// ResponseDescription is the gateway's human-readable status
	ResponseDescription string
	// CustomerMessage is the text shown to the customer
	CustomerMessage string
}

// Accepted reports whether the gateway queued the push
func (r *STKPushResponse) Accepted() bool {
	return r.ResponseCode == "0"
}

// StatusQueryResponse is the synchronous answer to a transaction status query
type StatusQueryResponse struct {
	// ConversationID correlates the asynchronous result callback
	ConversationID string
	// OriginatorConversationID is our identifier echoed back
	OriginatorConversationID string
	// ResponseDescription is the gateway's human-readable status
	ResponseDescription string
}

// BalanceQueryResponse is the synchronous answer to an account balance query
type BalanceQueryResponse struct {
	// ConversationID correlates the asynchronous result callback
	ConversationID string
	// OriginatorConversationID is our identifier echoed back
	OriginatorConversationID string
	// ResponseDescription is the gateway's human-readable status
	ResponseDescription string
}

// Gateway is the port to the M-Pesa API. It is defined in the domain
// layer; the Daraja HTTP adapter lives in infrastructure.
type Gateway interface {
	// STKPush initiates a payment prompt on the customer's phone
	STKPush(ctx context.Context, req *STKPushRequest) (*STKPushResponse, error)

	// QueryTransactionStatus requests the status of a past transaction.
	// The answer arrives asynchronously on the status result callback.
	QueryTransactionStatus(ctx context.Context, transactionID string) (*StatusQueryResponse, error)

	// QueryAccountBalance requests the shop's account balance.
	// The answer arrives asynchronously on the balance result callback.
	QueryAccountBalance(ctx context.Context) (*BalanceQueryResponse, error)
}
