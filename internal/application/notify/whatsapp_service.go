package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/whatsapp"
)

// TemplateSender sends a templated WhatsApp message and returns the
// provider's message ID.
type TemplateSender interface {
	SendTemplate(ctx context.Context, to string, bodyParams []string) (string, error)
	VerifyWebhookToken(token string) bool
}

// WhatsAppService sends customer notifications and handles the
// provider's webhook.
type WhatsAppService struct {
	sender TemplateSender
	logger *zap.Logger
}

// NewWhatsAppService creates a new WhatsAppService
func NewWhatsAppService(sender TemplateSender, logger *zap.Logger) *WhatsAppService {
	return &WhatsAppService{
		sender: sender,
		logger: logger,
	}
}

// NotifyDispatch tells the customer their order is on its way. The
// template carries the customer name, tracking number, destination,
// and order total.
func (s *WhatsAppService) NotifyDispatch(ctx context.Context, order *trade.Order) error {
	params := []string{
		order.CustomerName,
		order.TrackingNumber,
		order.City,
		order.Total.StringFixed(2),
	}

	messageID, err := s.sender.SendTemplate(ctx, order.CustomerPhone, params)
	if err != nil {
		return err
	}

	s.logger.Info("Dispatch notification sent",
		zap.String("order_id", order.ID.String()),
		zap.String("tracking_number", order.TrackingNumber),
		zap.String("message_id", messageID),
	)
	return nil
}

// VerifyWebhook answers the provider's subscription handshake. It
// returns the challenge to echo back, or an error when the mode or
// token does not match.
func (s *WhatsAppService) VerifyWebhook(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || !s.sender.VerifyWebhookToken(token) {
		return "", shared.ErrUnauthorized
	}
	return challenge, nil
}

// HandleInbound records an inbound webhook event. Customer replies are
// logged; delivery status events are acknowledged silently.
func (s *WhatsAppService) HandleInbound(ctx context.Context, payload []byte) error {
	_, message, err := whatsapp.DecodeWebhookEvent(payload)
	if err != nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Cannot parse webhook event")
	}

	if message != nil {
		s.logger.Info("Inbound WhatsApp message",
			zap.String("from", message.From),
			zap.String("message_id", message.ID),
			zap.String("type", message.Type),
			zap.String("body", message.Body),
		)
	}
	return nil
}
