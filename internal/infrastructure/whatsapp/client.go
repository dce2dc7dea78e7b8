package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/payment"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/config"
)

// ErrNotConfigured is returned when the client is missing credentials
var ErrNotConfigured = errors.New("whatsapp: client not configured")

// Client sends template messages through the Meta Graph API
type Client struct {
	config     *config.WhatsAppConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a WhatsApp client
func NewClient(cfg *config.WhatsAppConfig, logger *zap.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("whatsapp"),
	}
}

// Configured reports whether credentials are present
func (c *Client) Configured() bool {
	return c.config.AccessToken != "" && c.config.PhoneNumberID != ""
}

// templateMessage is the Graph API message envelope
type templateMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         template `json:"template"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendTemplate sends the configured template to a phone number with
// the given body parameters. Returns the message ID.
func (c *Client) SendTemplate(ctx context.Context, to string, bodyParams []string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	params := make([]parameter, 0, len(bodyParams))
	for _, p := range bodyParams {
		params = append(params, parameter{Type: "text", Text: p})
	}

	msg := templateMessage{
		MessagingProduct: "whatsapp",
		To:               payment.NormalizeMSISDN(to),
		Type:             "template",
		Template: template{
			Name:     c.config.TemplateName,
			Language: language{Code: "en"},
			Components: []component{
				{Type: "body", Parameters: params},
			},
		},
	}

	payloadBytes, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("whatsapp: failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.config.BaseURL, c.config.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("whatsapp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("whatsapp: failed to read response: %w", err)
	}

	var parsed sendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("whatsapp: invalid response: %w", err)
	}
	if resp.StatusCode >= 400 || parsed.Error != nil {
		if parsed.Error != nil {
			return "", fmt.Errorf("whatsapp: send rejected: %s (code %d)",
				parsed.Error.Message, parsed.Error.Code)
		}
		return "", fmt.Errorf("whatsapp: send rejected: HTTP %d", resp.StatusCode)
	}
	if len(parsed.Messages) == 0 {
		return "", fmt.Errorf("whatsapp: response contains no message ID")
	}

	c.logger.Info("Template message sent",
		zap.String("to", msg.To),
		zap.String("template", c.config.TemplateName),
		zap.String("message_id", parsed.Messages[0].ID),
	)
	return parsed.Messages[0].ID, nil
}

// VerifyWebhookToken checks the hub token of a webhook registration
func (c *Client) VerifyWebhookToken(token string) bool {
	return c.config.VerifyToken != "" && token == c.config.VerifyToken
}
