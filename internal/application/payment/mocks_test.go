package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/muhohoweb/shoe-app/internal/domain/payment"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/cache"
)

// MockTransactionRepository is a mock implementation of MpesaTransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.MpesaTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.MpesaTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*payment.MpesaTransaction, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.MpesaTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]payment.MpesaTransaction, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]payment.MpesaTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.MpesaTransaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]payment.MpesaTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByStatus(ctx context.Context, status payment.TransactionStatus, filter shared.Filter) ([]payment.MpesaTransaction, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]payment.MpesaTransaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, transaction *payment.MpesaTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) CountByStatus(ctx context.Context, status payment.TransactionStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*trade.Order, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPhone(ctx context.Context, phone string, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, phone, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) PurgeSettled(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status trade.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) STKPush(ctx context.Context, req *payment.STKPushRequest) (*payment.STKPushResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.STKPushResponse), args.Error(1)
}

func (m *MockGateway) QueryTransactionStatus(ctx context.Context, transactionID string) (*payment.StatusQueryResponse, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.StatusQueryResponse), args.Error(1)
}

func (m *MockGateway) QueryAccountBalance(ctx context.Context) (*payment.BalanceQueryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.BalanceQueryResponse), args.Error(1)
}

// MockBalanceCache is a mock implementation of BalanceCache
type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) Put(ctx context.Context, snapshot *cache.BalanceSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockBalanceCache) Get(ctx context.Context) (*cache.BalanceSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.BalanceSnapshot), args.Error(1)
}

// MockReplayGuard is a mock implementation of ReplayGuard
type MockReplayGuard struct {
	mock.Mock
}

func (m *MockReplayGuard) MarkHandled(ctx context.Context, checkoutRequestID string) (bool, error) {
	args := m.Called(ctx, checkoutRequestID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReplayGuard) Forget(ctx context.Context, checkoutRequestID string) error {
	args := m.Called(ctx, checkoutRequestID)
	return args.Error(0)
}
