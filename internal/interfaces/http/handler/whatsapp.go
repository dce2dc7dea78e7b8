package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	notifyapp "github.com/muhohoweb/shoe-app/internal/application/notify"
)

// WhatsAppHandler handles the Meta Graph webhook endpoints
type WhatsAppHandler struct {
	BaseHandler
	whatsappService *notifyapp.WhatsAppService
}

// NewWhatsAppHandler creates a new WhatsAppHandler
func NewWhatsAppHandler(whatsappService *notifyapp.WhatsAppService) *WhatsAppHandler {
	return &WhatsAppHandler{whatsappService: whatsappService}
}

// Verify answers Meta's webhook subscription handshake. The challenge
// must be echoed back as plain text for the subscription to activate.
func (h *WhatsAppHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	echo, err := h.whatsappService.VerifyWebhook(mode, token, challenge)
	if err != nil {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}

	c.String(http.StatusOK, echo)
}

// Receive handles inbound webhook events (delivery statuses, replies).
// Meta expects a 200 regardless of how the event is handled, otherwise
// it keeps retrying and eventually disables the webhook.
func (h *WhatsAppHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusOK)
		return
	}

	_ = h.whatsappService.HandleInbound(c.Request.Context(), payload)
	c.Status(http.StatusOK)
}
