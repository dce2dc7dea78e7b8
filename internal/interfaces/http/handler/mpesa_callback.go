package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentapp "github.com/muhohoweb/shoe-app/internal/application/payment"
	"github.com/muhohoweb/shoe-app/internal/domain/payment"
)

// MpesaCallbackHandler handles callbacks posted by the Daraja gateway.
// These endpoints are called by Safaricom, not by browsers, so they
// speak the gateway's ack format instead of the API envelope.
type MpesaCallbackHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewMpesaCallbackHandler creates a new MpesaCallbackHandler
func NewMpesaCallbackHandler(paymentService *paymentapp.PaymentService) *MpesaCallbackHandler {
	return &MpesaCallbackHandler{paymentService: paymentService}
}

// GatewayAck is the acknowledgement body Daraja expects
type GatewayAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// STKCallback receives the payment result for an STK push
func (h *MpesaCallbackHandler) STKCallback(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, GatewayAck{ResultCode: 1, ResultDesc: "Unable to read request body"})
		return
	}

	result, err := h.paymentService.ProcessSTKCallback(c.Request.Context(), payload)
	if err != nil {
		var parseErr *payment.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusBadRequest, GatewayAck{ResultCode: 1, ResultDesc: "Invalid callback payload"})
			return
		}
		// Non-2xx makes the gateway retry the callback later
		c.JSON(http.StatusInternalServerError, GatewayAck{ResultCode: 1, ResultDesc: "Processing failed"})
		return
	}

	desc := "Accepted"
	if !result.Processed {
		desc = "Already processed"
	}
	c.JSON(http.StatusOK, GatewayAck{ResultCode: 0, ResultDesc: desc})
}

// BalanceResult receives the asynchronous answer to a balance query
func (h *MpesaCallbackHandler) BalanceResult(c *gin.Context) {
	h.handleResult(c, h.paymentService.ProcessBalanceResult)
}

// StatusResult receives the asynchronous answer to a status query
func (h *MpesaCallbackHandler) StatusResult(c *gin.Context) {
	h.handleResult(c, h.paymentService.ProcessStatusResult)
}

// QueueTimeout receives the gateway's timeout notification for a
// queued query. Nothing to do beyond acknowledging it.
func (h *MpesaCallbackHandler) QueueTimeout(c *gin.Context) {
	c.JSON(http.StatusOK, GatewayAck{ResultCode: 0, ResultDesc: "Accepted"})
}

func (h *MpesaCallbackHandler) handleResult(c *gin.Context, process func(ctx context.Context, payload []byte) error) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, GatewayAck{ResultCode: 1, ResultDesc: "Unable to read request body"})
		return
	}

	if err := process(c.Request.Context(), payload); err != nil {
		var parseErr *payment.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusBadRequest, GatewayAck{ResultCode: 1, ResultDesc: "Invalid result payload"})
			return
		}
		c.JSON(http.StatusInternalServerError, GatewayAck{ResultCode: 1, ResultDesc: "Processing failed"})
		return
	}

	c.JSON(http.StatusOK, GatewayAck{ResultCode: 0, ResultDesc: "Accepted"})
}
