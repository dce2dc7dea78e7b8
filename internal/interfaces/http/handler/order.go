package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/muhohoweb/shoe-app/internal/application/trade"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
)

// OrderHandler handles back-office order management endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List returns a paginated list of orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID retrieves an order by its ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus moves an order through the fulfilment states and
// optionally sends the dispatch notification
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Stats returns order counts grouped by status
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
