package payment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseError reports a gateway payload that could not be decoded. The
// callback endpoints translate it into the gateway's rejection reply
// instead of a generic server error.
type ParseError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("payment: cannot parse callback field %q: %s", e.Field, e.Reason)
}

// NewParseError creates a ParseError
func NewParseError(field, reason string) *ParseError {
	return &ParseError{Field: field, Reason: reason}
}

// stkCallbackEnvelope mirrors the wire shape of the STK result callback
type stkCallbackEnvelope struct {
	Body struct {
		StkCallback *struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  *struct {
				Item []metadataItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type metadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// STKCallback is the decoded STK push result
type STKCallback struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	// Metadata holds the flattened CallbackMetadata items keyed by name.
	// On a failed push the gateway omits it entirely.
	Metadata map[string]interface{}
}

// Succeeded reports whether the customer completed the payment
func (c *STKCallback) Succeeded() bool {
	return c.ResultCode == 0
}

// ReceiptNumber returns the MpesaReceiptNumber metadata item
func (c *STKCallback) ReceiptNumber() string {
	if v, ok := c.Metadata["MpesaReceiptNumber"].(string); ok {
		return v
	}
	return ""
}

// TransactionDate returns the TransactionDate metadata item decoded
// from the gateway's YYYYMMDDHHMMSS numeric format, or nil.
func (c *STKCallback) TransactionDate() *time.Time {
	raw, ok := c.Metadata["TransactionDate"]
	if !ok {
		return nil
	}

	var compact string
	switch v := raw.(type) {
	case float64:
		compact = fmt.Sprintf("%.0f", v)
	case string:
		compact = v
	default:
		return nil
	}

	parsed, err := time.Parse("20060102150405", compact)
	if err != nil {
		return nil
	}
	return &parsed
}

// DecodeSTKCallback parses the gateway's STK result payload. A body
// without the stkCallback node is a ParseError.
func DecodeSTKCallback(payload []byte) (*STKCallback, error) {
	var envelope stkCallbackEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, NewParseError("Body", err.Error())
	}

	cb := envelope.Body.StkCallback
	if cb == nil {
		return nil, NewParseError("Body.stkCallback", "missing")
	}
	if cb.CheckoutRequestID == "" {
		return nil, NewParseError("Body.stkCallback.CheckoutRequestID", "missing")
	}

	result := &STKCallback{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
		Metadata:          map[string]interface{}{},
	}
	if cb.CallbackMetadata != nil {
		for _, item := range cb.CallbackMetadata.Item {
			if item.Name != "" {
				result.Metadata[item.Name] = item.Value
			}
		}
	}
	return result, nil
}

// resultEnvelope mirrors the wire shape of the balance and status
// result callbacks, which share a single format.
type resultEnvelope struct {
	Result *struct {
		ResultType               int    `json:"ResultType"`
		ResultCode               int    `json:"ResultCode"`
		ResultDesc               string `json:"ResultDesc"`
		OriginatorConversationID string `json:"OriginatorConversationID"`
		ConversationID           string `json:"ConversationID"`
		TransactionID            string `json:"TransactionID"`
		ResultParameters         *struct {
			ResultParameter []struct {
				Key   string      `json:"Key"`
				Value interface{} `json:"Value"`
			} `json:"ResultParameter"`
		} `json:"ResultParameters"`
	} `json:"Result"`
}

// QueryResult is the decoded balance or transaction status result
type QueryResult struct {
	ResultCode               int
	ResultDesc               string
	OriginatorConversationID string
	ConversationID           string
	TransactionID            string
	// Parameters holds the flattened ResultParameter entries keyed by name
	Parameters map[string]interface{}
}

// DecodeQueryResult parses a balance or status result callback
func DecodeQueryResult(payload []byte) (*QueryResult, error) {
	var envelope resultEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, NewParseError("Result", err.Error())
	}
	if envelope.Result == nil {
		return nil, NewParseError("Result", "missing")
	}

	result := &QueryResult{
		ResultCode:               envelope.Result.ResultCode,
		ResultDesc:               envelope.Result.ResultDesc,
		OriginatorConversationID: envelope.Result.OriginatorConversationID,
		ConversationID:           envelope.Result.ConversationID,
		TransactionID:            envelope.Result.TransactionID,
		Parameters:               map[string]interface{}{},
	}
	if envelope.Result.ResultParameters != nil {
		for _, p := range envelope.Result.ResultParameters.ResultParameter {
			if p.Key != "" {
				result.Parameters[p.Key] = p.Value
			}
		}
	}
	return result, nil
}

// NormalizeMSISDN converts a Kenyan phone number to 2547XXXXXXXX form.
// A leading "+" is stripped and a leading "0" becomes "254".
func NormalizeMSISDN(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "0") {
		phone = "254" + phone[1:]
	}
	return phone
}
