package whatsapp

import "encoding/json"

// WebhookEvent is the inbound notification envelope posted by the
// Graph API when a customer replies.
type WebhookEvent struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				MessagingProduct string `json:"messaging_product"`
				Messages         []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// InboundMessage is the first message of a webhook event, if any
type InboundMessage struct {
	From string
	ID   string
	Type string
	Body string
}

// DecodeWebhookEvent parses a webhook payload and extracts the first
// inbound message. The message is nil for delivery status events.
func DecodeWebhookEvent(payload []byte) (*WebhookEvent, *InboundMessage, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, nil, err
	}

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) > 0 {
				m := change.Value.Messages[0]
				return &event, &InboundMessage{
					From: m.From,
					ID:   m.ID,
					Type: m.Type,
					Body: m.Text.Body,
				}, nil
			}
		}
	}
	return &event, nil, nil
}
