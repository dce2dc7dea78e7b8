package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/catalog"
	"github.com/muhohoweb/shoe-app/internal/domain/payment"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// PaymentInitiator starts a payment prompt for a freshly placed order
type PaymentInitiator interface {
	InitiateForOrder(ctx context.Context, order *trade.Order) error
}

// CheckoutService places storefront orders
type CheckoutService struct {
	productRepo   catalog.ProductRepository
	locationRepo  trade.DeliveryLocationRepository
	checkoutStore trade.CheckoutStore
	payments      PaymentInitiator
	logger        *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	productRepo catalog.ProductRepository,
	locationRepo trade.DeliveryLocationRepository,
	checkoutStore trade.CheckoutStore,
	payments PaymentInitiator,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		productRepo:   productRepo,
		locationRepo:  locationRepo,
		checkoutStore: checkoutStore,
		payments:      payments,
		logger:        logger,
	}
}

// Checkout validates the cart, prices every line from the catalog,
// persists the order atomically with its stock decrements, and then
// asks the gateway for a payment prompt. A failed prompt does not
// fail the checkout; the order stays pending.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_LOCATION", "Delivery location not found")
		}
		return nil, err
	}
	if !location.IsActive {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Delivery location is not available")
	}

	phone := payment.NormalizeMSISDN(req.CustomerPhone)

	order, err := trade.NewOrder(req.CustomerName, phone, req.CustomerEmail, req.Address, location.Name, location.Fee)
	if err != nil {
		return nil, err
	}
	order.Notes = req.Notes

	// Every line is priced from the catalog, never from the client
	decrements := make(map[uuid.UUID]int, len(req.Items))
	for _, line := range req.Items {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
			}
			return nil, err
		}
		if !product.IsActive {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product "+product.Name+" is not available")
		}
		if !product.InStock(line.Quantity) {
			return nil, shared.ErrInsufficientStock
		}

		item, err := trade.NewOrderItem(product.ID, product.Name, product.Price, line.Quantity, line.Color, line.Size)
		if err != nil {
			return nil, err
		}
		item.OrderID = order.ID
		if err := order.AddItem(*item); err != nil {
			return nil, err
		}
		decrements[product.ID] += line.Quantity
	}

	if err := s.checkoutStore.PlaceOrder(ctx, order, decrements); err != nil {
		return nil, err
	}

	resp := &CheckoutResponse{
		Order:   ToOrderResponse(order),
		STKSent: true,
	}

	if err := s.payments.InitiateForOrder(ctx, order); err != nil {
		// The order is already on record; the customer can retry the
		// payment from the tracking page.
		s.logger.Warn("STK push failed after checkout",
			zap.String("order_id", order.ID.String()),
			zap.String("tracking_number", order.TrackingNumber),
			zap.Error(err),
		)
		resp.STKSent = false
		resp.STKMessage = "Payment prompt could not be sent. You can retry from the order tracking page."
	}

	return resp, nil
}
