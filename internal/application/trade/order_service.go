package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// DispatchNotifier tells the customer their order went out
type DispatchNotifier interface {
	NotifyDispatch(ctx context.Context, order *trade.Order) error
}

// OrderService handles back-office order operations
type OrderService struct {
	orderRepo trade.OrderRepository
	notifier  DispatchNotifier
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, notifier DispatchNotifier, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByTrackingNumber retrieves an order by its tracking number
func (s *OrderService) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders matching the filter
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
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
	if filter.Phone != "" {
		domainFilter.Filters["customer_phone"] = filter.Phone
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}

	return responses, total, nil
}

// UpdateStatus moves an order through the fulfilment state machine.
// When the order completes and the caller asked for it, the customer
// gets a WhatsApp dispatch message; a failed send never fails the
// status change.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateStatus(trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if req.SendDispatch && order.Status == trade.OrderStatusCompleted {
		if err := s.notifier.NotifyDispatch(ctx, order); err != nil {
			s.logger.Warn("Failed to send dispatch notification",
				zap.String("order_id", order.ID.String()),
				zap.String("phone", order.CustomerPhone),
				zap.Error(err),
			)
		}
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Delete soft-deletes an order
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orderRepo.Delete(ctx, id)
}

// Stats summarises order counts per fulfilment state
func (s *OrderService) Stats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)
	for _, status := range []trade.OrderStatus{
		trade.OrderStatusPending,
		trade.OrderStatusProcessing,
		trade.OrderStatusShipped,
		trade.OrderStatusCompleted,
		trade.OrderStatusCancelled,
	} {
		count, err := s.orderRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		stats[string(status)] = count
	}
	return stats, nil
}
