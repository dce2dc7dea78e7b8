package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/muhohoweb/shoe-app/internal/application/payment"
	tradeapp "github.com/muhohoweb/shoe-app/internal/application/trade"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
)

// StorefrontHandler handles the public shop endpoints
type StorefrontHandler struct {
	BaseHandler
	storefrontService *tradeapp.StorefrontService
	checkoutService   *tradeapp.CheckoutService
	orderService      *tradeapp.OrderService
	paymentService    *paymentapp.PaymentService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	storefrontService *tradeapp.StorefrontService,
	checkoutService *tradeapp.CheckoutService,
	orderService *tradeapp.OrderService,
	paymentService *paymentapp.PaymentService,
) *StorefrontHandler {
	return &StorefrontHandler{
		storefrontService: storefrontService,
		checkoutService:   checkoutService,
		orderService:      orderService,
		paymentService:    paymentService,
	}
}

// Storefront returns the shop landing data: active products, categories
// and delivery locations in one response
func (h *StorefrontHandler) Storefront(c *gin.Context) {
	var filter tradeapp.StorefrontFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	storefront, err := h.storefrontService.Storefront(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, storefront)
}

// Checkout places an order and fires the payment prompt
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	var req tradeapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Track looks up an order by its tracking number
func (h *StorefrontHandler) Track(c *gin.Context) {
	trackingNumber := c.Param("trackingNumber")
	if trackingNumber == "" {
		h.BadRequest(c, "Missing tracking number")
		return
	}

	order, err := h.orderService.GetByTrackingNumber(c.Request.Context(), trackingNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RetryPayment re-sends the payment prompt for an unpaid order
func (h *StorefrontHandler) RetryPayment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.paymentService.InitiateSTKPush(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
