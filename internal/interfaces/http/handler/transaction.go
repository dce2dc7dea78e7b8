package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/muhohoweb/shoe-app/internal/application/payment"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
)

// TransactionHandler handles back-office payment transaction endpoints
type TransactionHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(paymentService *paymentapp.PaymentService) *TransactionHandler {
	return &TransactionHandler{paymentService: paymentService}
}

// List returns a paginated list of gateway transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var filter paymentapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	transactions, total, err := h.paymentService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, transactions, total, page, pageSize)
}

// Stats returns transaction counts and settled takings
func (h *TransactionHandler) Stats(c *gin.Context) {
	stats, err := h.paymentService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Balance returns the most recently cached account balance
func (h *TransactionHandler) Balance(c *gin.Context) {
	balance, err := h.paymentService.CachedBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// RefreshBalance asks the gateway for a fresh balance. The result
// arrives asynchronously on the balance result callback.
func (h *TransactionHandler) RefreshBalance(c *gin.Context) {
	ack, err := h.paymentService.QueryBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ack)
}

// QueryStatus asks the gateway for the status of a transaction. The
// result arrives asynchronously on the status result callback.
func (h *TransactionHandler) QueryStatus(c *gin.Context) {
	transactionID := c.Param("id")
	if transactionID == "" {
		h.BadRequest(c, "Missing transaction ID")
		return
	}

	ack, err := h.paymentService.QueryTransactionStatus(c.Request.Context(), transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ack)
}
