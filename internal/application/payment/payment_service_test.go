package payment

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/payment"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/cache"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *MockTransactionRepository, *MockOrderRepository, *MockGateway, *MockBalanceCache, *MockReplayGuard) {
	t.Helper()
	txRepo := new(MockTransactionRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockGateway)
	balanceCache := new(MockBalanceCache)
	replayGuard := new(MockReplayGuard)
	service := NewPaymentService(txRepo, orderRepo, gateway, balanceCache, replayGuard, zap.NewNop())
	return service, txRepo, orderRepo, gateway, balanceCache, replayGuard
}

func newPendingOrder(t *testing.T) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder("Jane Wanjiku", "254712345678", "",
		"1 Moi Avenue", "Nairobi", decimal.NewFromInt(300))
	require.NoError(t, err)
	return order
}

func newPendingTransaction(t *testing.T, order *trade.Order, checkoutRequestID string) *payment.MpesaTransaction {
	t.Helper()
	tx, err := payment.NewMpesaTransaction(order.ID, checkoutRequestID, "mr-1",
		"254712345678", decimal.NewFromInt(4800), order.TrackingNumber)
	require.NoError(t, err)
	return tx
}

func stkCallbackPayload(checkoutRequestID string, resultCode int, receipt string) []byte {
	metadata := ""
	if resultCode == 0 {
		metadata = fmt.Sprintf(`,"CallbackMetadata":{"Item":[
			{"Name":"Amount","Value":4800},
			{"Name":"MpesaReceiptNumber","Value":%q},
			{"Name":"TransactionDate","Value":20250817143055},
			{"Name":"PhoneNumber","Value":254712345678}]}`, receipt)
	}
	return []byte(fmt.Sprintf(`{"Body":{"stkCallback":{
		"MerchantRequestID":"mr-1",
		"CheckoutRequestID":%q,
		"ResultCode":%d,
		"ResultDesc":"desc"%s}}}`, checkoutRequestID, resultCode, metadata))
}

func TestPaymentService_ProcessSTKCallback_Success(t *testing.T) {
	service, txRepo, orderRepo, _, _, replayGuard := newPaymentFixture(t)

	order := newPendingOrder(t)
	tx := newPendingTransaction(t, order, "ws_CO_1")

	replayGuard.On("MarkHandled", mock.Anything, "ws_CO_1").Return(true, nil)
	txRepo.On("FindByCheckoutRequestID", mock.Anything, "ws_CO_1").Return(tx, nil)
	txRepo.On("Save", mock.Anything, tx).Return(nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	result, err := service.ProcessSTKCallback(context.Background(), stkCallbackPayload("ws_CO_1", 0, "ABC123"))

	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, string(payment.TransactionStatusCompleted), result.Status)
	assert.Equal(t, payment.TransactionStatusCompleted, tx.Status)
	assert.Equal(t, "ABC123", tx.MpesaReceiptNumber)
	require.NotNil(t, tx.TransactionDate)
	assert.True(t, order.IsPaid())
	assert.Equal(t, "ABC123", order.MpesaCode)
}

func TestPaymentService_ProcessSTKCallback_Failure(t *testing.T) {
	service, txRepo, orderRepo, _, _, replayGuard := newPaymentFixture(t)

	order := newPendingOrder(t)
	tx := newPendingTransaction(t, order, "ws_CO_2")

	replayGuard.On("MarkHandled", mock.Anything, "ws_CO_2").Return(true, nil)
	txRepo.On("FindByCheckoutRequestID", mock.Anything, "ws_CO_2").Return(tx, nil)
	txRepo.On("Save", mock.Anything, tx).Return(nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	result, err := service.ProcessSTKCallback(context.Background(), stkCallbackPayload("ws_CO_2", 1032, ""))

	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, payment.TransactionStatusFailed, tx.Status)
	assert.Equal(t, trade.PaymentStatusFailed, order.PaymentStatus)
}

func TestPaymentService_ProcessSTKCallback_UnknownCheckoutRequest(t *testing.T) {
	service, txRepo, orderRepo, _, _, replayGuard := newPaymentFixture(t)

	replayGuard.On("MarkHandled", mock.Anything, "ws_CO_unknown").Return(true, nil)
	txRepo.On("FindByCheckoutRequestID", mock.Anything, "ws_CO_unknown").Return(nil, shared.ErrNotFound)

	result, err := service.ProcessSTKCallback(context.Background(), stkCallbackPayload("ws_CO_unknown", 0, "ABC123"))

	require.NoError(t, err)
	assert.False(t, result.Processed)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_ProcessSTKCallback_ReplayViaGuard(t *testing.T) {
	service, txRepo, orderRepo, _, _, replayGuard := newPaymentFixture(t)

	replayGuard.On("MarkHandled", mock.Anything, "ws_CO_3").Return(false, nil)

	result, err := service.ProcessSTKCallback(context.Background(), stkCallbackPayload("ws_CO_3", 0, "ABC123"))

	require.NoError(t, err)
	assert.False(t, result.Processed)
	txRepo.AssertNotCalled(t, "FindByCheckoutRequestID", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_ProcessSTKCallback_ReplayOnTerminalTransaction(t *testing.T) {
	// Redis has no memory of the callback but the transaction already
	// settled; the domain guard keeps the replay from rewriting it.
	service, txRepo, orderRepo, _, _, replayGuard := newPaymentFixture(t)

	order := newPendingOrder(t)
	tx := newPendingTransaction(t, order, "ws_CO_4")
	_, err := tx.ApplyCallbackResult(0, "done", "ABC123", nil)
	require.NoError(t, err)

	replayGuard.On("MarkHandled", mock.Anything, "ws_CO_4").Return(true, nil)
	txRepo.On("FindByCheckoutRequestID", mock.Anything, "ws_CO_4").Return(tx, nil)

	result, err := service.ProcessSTKCallback(context.Background(), stkCallbackPayload("ws_CO_4", 1032, ""))

	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, payment.TransactionStatusCompleted, tx.Status)
	assert.Equal(t, "ABC123", tx.MpesaReceiptNumber)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPaymentService_ProcessSTKCallback_TransientFailureThenRetry(t *testing.T) {
	// A save failure after the guard marked the callback must release
	// the mark, so the gateway's retry lands on the database path and
	// actually settles the payment.
	service, txRepo, orderRepo, _, _, replayGuard := newPaymentFixture(t)

	order := newPendingOrder(t)
	tx := newPendingTransaction(t, order, "ws_CO_6")
	payload := stkCallbackPayload("ws_CO_6", 0, "ABC123")

	replayGuard.On("MarkHandled", mock.Anything, "ws_CO_6").Return(true, nil).Once()
	txRepo.On("FindByCheckoutRequestID", mock.Anything, "ws_CO_6").Return(tx, nil).Once()
	txRepo.On("Save", mock.Anything, tx).Return(fmt.Errorf("connection reset")).Once()
	replayGuard.On("Forget", mock.Anything, "ws_CO_6").Return(nil).Once()

	_, err := service.ProcessSTKCallback(context.Background(), payload)
	require.Error(t, err)
	replayGuard.AssertCalled(t, "Forget", mock.Anything, "ws_CO_6")
	assert.False(t, order.IsPaid())

	// The mark was released, so the retry is the first sighting again.
	retryTx := newPendingTransaction(t, order, "ws_CO_6")
	replayGuard.On("MarkHandled", mock.Anything, "ws_CO_6").Return(true, nil).Once()
	txRepo.On("FindByCheckoutRequestID", mock.Anything, "ws_CO_6").Return(retryTx, nil).Once()
	txRepo.On("Save", mock.Anything, retryTx).Return(nil).Once()
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()
	orderRepo.On("Save", mock.Anything, order).Return(nil).Once()

	result, err := service.ProcessSTKCallback(context.Background(), payload)

	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.True(t, order.IsPaid())
	assert.Equal(t, "ABC123", order.MpesaCode)
}

func TestPaymentService_ProcessSTKCallback_MalformedBody(t *testing.T) {
	service, _, _, _, _, _ := newPaymentFixture(t)

	_, err := service.ProcessSTKCallback(context.Background(), []byte(`{"Body":{}}`))

	var parseErr *payment.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestPaymentService_InitiateSTKPush_AlreadyPaid(t *testing.T) {
	service, txRepo, orderRepo, gateway, _, _ := newPaymentFixture(t)

	order := newPendingOrder(t)
	require.NoError(t, order.MarkPaid("ABC123"))

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	_, err := service.InitiateSTKPush(context.Background(), order.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_PAID", domainErr.Code)
	gateway.AssertNotCalled(t, "STKPush", mock.Anything, mock.Anything)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_InitiateForOrder_RecordsTransaction(t *testing.T) {
	service, txRepo, _, gateway, _, _ := newPaymentFixture(t)

	order := newPendingOrder(t)

	gateway.On("STKPush", mock.Anything, mock.MatchedBy(func(req *payment.STKPushRequest) bool {
		return req.Phone == "254712345678" && req.AccountReference == order.TrackingNumber
	})).Return(&payment.STKPushResponse{
		CheckoutRequestID:   "ws_CO_5",
		MerchantRequestID:   "mr-5",
		ResponseCode:        "0",
		ResponseDescription: "Success",
		CustomerMessage:     "Check your phone",
	}, nil)
	txRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx *payment.MpesaTransaction) bool {
		return tx.CheckoutRequestID == "ws_CO_5" && tx.OrderID == order.ID
	})).Return(nil)

	err := service.InitiateForOrder(context.Background(), order)

	require.NoError(t, err)
	txRepo.AssertExpectations(t)
}

func TestPaymentService_ProcessBalanceResult_CachesSnapshot(t *testing.T) {
	service, _, _, _, balanceCache, _ := newPaymentFixture(t)

	balanceCache.On("Put", mock.Anything, mock.MatchedBy(func(s *cache.BalanceSnapshot) bool {
		_, ok := s.Parameters["AccountBalance"]
		return ok && !s.FetchedAt.IsZero()
	})).Return(nil)

	payload := []byte(`{"Result":{
		"ResultType":0,"ResultCode":0,"ResultDesc":"ok",
		"OriginatorConversationID":"oc-1","ConversationID":"c-1",
		"ResultParameters":{"ResultParameter":[
			{"Key":"AccountBalance","Value":"Working Account|KES|1000.00"},
			{"Key":"BOCompletedTime","Value":20250817143055}]}}}`)

	err := service.ProcessBalanceResult(context.Background(), payload)

	require.NoError(t, err)
	balanceCache.AssertExpectations(t)
}

func TestPaymentService_CachedBalance_Miss(t *testing.T) {
	service, _, _, _, balanceCache, _ := newPaymentFixture(t)

	balanceCache.On("Get", mock.Anything).Return(nil, cache.ErrCacheMiss)

	_, err := service.CachedBalance(context.Background())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "BALANCE_UNAVAILABLE", domainErr.Code)
}
