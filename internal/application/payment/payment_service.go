package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/payment"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/cache"
)

// BalanceCache bridges the asynchronous balance result callback and
// the admin balance endpoint.
type BalanceCache interface {
	Put(ctx context.Context, snapshot *cache.BalanceSnapshot) error
	Get(ctx context.Context) (*cache.BalanceSnapshot, error)
}

// ReplayGuard short-circuits callbacks that were already handled
type ReplayGuard interface {
	MarkHandled(ctx context.Context, checkoutRequestID string) (bool, error)
	Forget(ctx context.Context, checkoutRequestID string) error
}

// PaymentService drives the M-Pesa payment lifecycle
type PaymentService struct {
	txRepo       payment.MpesaTransactionRepository
	orderRepo    trade.OrderRepository
	gateway      payment.Gateway
	balanceCache BalanceCache
	replayGuard  ReplayGuard
	logger       *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	txRepo payment.MpesaTransactionRepository,
	orderRepo trade.OrderRepository,
	gateway payment.Gateway,
	balanceCache BalanceCache,
	replayGuard ReplayGuard,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		txRepo:       txRepo,
		orderRepo:    orderRepo,
		gateway:      gateway,
		balanceCache: balanceCache,
		replayGuard:  replayGuard,
		logger:       logger,
	}
}

// InitiateForOrder pushes a payment prompt for a freshly placed order
func (s *PaymentService) InitiateForOrder(ctx context.Context, order *trade.Order) error {
	_, err := s.initiate(ctx, order)
	return err
}

// InitiateSTKPush pushes a payment prompt for an existing order, used
// when the customer retries from the tracking page.
func (s *PaymentService) InitiateSTKPush(ctx context.Context, orderID uuid.UUID) (*STKPushResult, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, shared.NewDomainError("ALREADY_PAID", "Order is already paid")
	}
	return s.initiate(ctx, order)
}

func (s *PaymentService) initiate(ctx context.Context, order *trade.Order) (*STKPushResult, error) {
	phone := payment.NormalizeMSISDN(order.CustomerPhone)

	resp, err := s.gateway.STKPush(ctx, &payment.STKPushRequest{
		Phone:            phone,
		Amount:           order.Total,
		AccountReference: order.TrackingNumber,
		Description:      "Shoe order " + order.TrackingNumber,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Accepted() {
		return nil, shared.NewDomainError("STK_REJECTED", resp.ResponseDescription)
	}

	tx, err := payment.NewMpesaTransaction(order.ID, resp.CheckoutRequestID,
		resp.MerchantRequestID, phone, order.Total, order.TrackingNumber)
	if err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("STK push initiated",
		zap.String("order_id", order.ID.String()),
		zap.String("checkout_request_id", resp.CheckoutRequestID),
		zap.String("phone", phone),
	)

	return &STKPushResult{
		CheckoutRequestID: resp.CheckoutRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

// ProcessSTKCallback folds the gateway's STK result into the matching
// transaction and order. An unknown checkout request ID is logged and
// acknowledged with nothing changed, so the gateway stops retrying.
func (s *PaymentService) ProcessSTKCallback(ctx context.Context, payload []byte) (*CallbackResult, error) {
	cb, err := payment.DecodeSTKCallback(payload)
	if err != nil {
		return nil, err
	}

	result := &CallbackResult{
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
	}

	// Fast path; the terminal-status check on the transaction remains
	// the source of truth when Redis is unavailable.
	first, guardErr := s.replayGuard.MarkHandled(ctx, cb.CheckoutRequestID)
	if guardErr != nil {
		s.logger.Warn("Replay guard unavailable, falling through to database check",
			zap.Error(guardErr))
	} else if !first {
		s.logger.Info("Replayed STK callback acknowledged",
			zap.String("checkout_request_id", cb.CheckoutRequestID))
		return result, nil
	}

	if err := s.applySTKResult(ctx, cb, result); err != nil {
		// Nothing committed. Release the mark so the gateway's retry is
		// reprocessed instead of being swallowed as a replay.
		if guardErr == nil {
			if ferr := s.replayGuard.Forget(ctx, cb.CheckoutRequestID); ferr != nil {
				s.logger.Warn("Failed to release replay guard after error",
					zap.String("checkout_request_id", cb.CheckoutRequestID),
					zap.Error(ferr))
			}
		}
		return nil, err
	}
	return result, nil
}

// applySTKResult updates the matching transaction and order from a
// decoded STK callback, filling result as it goes.
func (s *PaymentService) applySTKResult(ctx context.Context, cb *payment.STKCallback, result *CallbackResult) error {
	tx, err := s.txRepo.FindByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("STK callback for unknown checkout request",
				zap.String("checkout_request_id", cb.CheckoutRequestID))
			return nil
		}
		return err
	}

	changed, err := tx.ApplyCallbackResult(cb.ResultCode, cb.ResultDesc, cb.ReceiptNumber(), cb.TransactionDate())
	if err != nil {
		return err
	}
	if !changed {
		result.Status = string(tx.Status)
		return nil
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		return err
	}

	order, err := s.orderRepo.FindByID(ctx, tx.OrderID)
	if err != nil {
		return err
	}

	if cb.Succeeded() {
		if err := order.MarkPaid(tx.MpesaReceiptNumber); err != nil {
			return err
		}
	} else {
		if err := order.MarkPaymentFailed(); err != nil {
			return err
		}
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	s.logger.Info("STK callback processed",
		zap.String("checkout_request_id", cb.CheckoutRequestID),
		zap.Int("result_code", cb.ResultCode),
		zap.String("status", string(tx.Status)),
	)

	result.Processed = true
	result.Status = string(tx.Status)
	return nil
}

// ProcessBalanceResult caches the asynchronous account balance result
func (s *PaymentService) ProcessBalanceResult(ctx context.Context, payload []byte) error {
	qr, err := payment.DecodeQueryResult(payload)
	if err != nil {
		return err
	}

	snapshot := &cache.BalanceSnapshot{
		Parameters: qr.Parameters,
		ResultDesc: qr.ResultDesc,
		FetchedAt:  time.Now(),
	}
	if err := s.balanceCache.Put(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Info("Account balance result cached",
		zap.String("conversation_id", qr.ConversationID))
	return nil
}

// ProcessStatusResult records the asynchronous transaction status
// result. The gateway reports on transactions it settled itself, so
// there is nothing to mutate; the result is logged for the audit trail.
func (s *PaymentService) ProcessStatusResult(ctx context.Context, payload []byte) error {
	qr, err := payment.DecodeQueryResult(payload)
	if err != nil {
		return err
	}

	s.logger.Info("Transaction status result received",
		zap.String("transaction_id", qr.TransactionID),
		zap.Int("result_code", qr.ResultCode),
		zap.String("result_desc", qr.ResultDesc),
		zap.Any("parameters", qr.Parameters),
	)
	return nil
}

// QueryBalance asks the gateway for the account balance. The figures
// arrive later on the balance result callback.
func (s *PaymentService) QueryBalance(ctx context.Context) (*payment.BalanceQueryResponse, error) {
	return s.gateway.QueryAccountBalance(ctx)
}

// QueryTransactionStatus asks the gateway about a settled transaction
func (s *PaymentService) QueryTransactionStatus(ctx context.Context, transactionID string) (*payment.StatusQueryResponse, error) {
	if transactionID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction ID is required")
	}
	return s.gateway.QueryTransactionStatus(ctx, transactionID)
}

// CachedBalance returns the last cached balance snapshot, if any
func (s *PaymentService) CachedBalance(ctx context.Context) (*BalanceResponse, error) {
	snapshot, err := s.balanceCache.Get(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, shared.NewDomainError("BALANCE_UNAVAILABLE",
				"No recent balance result. Trigger a balance query and try again shortly.")
		}
		return nil, err
	}

	return &BalanceResponse{
		Parameters: snapshot.Parameters,
		ResultDesc: snapshot.ResultDesc,
		FetchedAt:  snapshot.FetchedAt,
	}, nil
}

// List retrieves transactions matching the filter
func (s *PaymentService) List(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	transactions, err := s.txRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.txRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = ToTransactionResponse(&transactions[i])
	}

	return responses, total, nil
}

// Stats summarises transaction counts per lifecycle state
func (s *PaymentService) Stats(ctx context.Context) (*TransactionStats, error) {
	stats := &TransactionStats{}

	var err error
	if stats.Pending, err = s.txRepo.CountByStatus(ctx, payment.TransactionStatusPending); err != nil {
		return nil, err
	}
	if stats.Completed, err = s.txRepo.CountByStatus(ctx, payment.TransactionStatusCompleted); err != nil {
		return nil, err
	}
	if stats.Failed, err = s.txRepo.CountByStatus(ctx, payment.TransactionStatusFailed); err != nil {
		return nil, err
	}
	stats.Total = stats.Pending + stats.Completed + stats.Failed

	return stats, nil
}
