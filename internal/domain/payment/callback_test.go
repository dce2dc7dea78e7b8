package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successSTKPayload = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 0,
      "ResultDesc": "The service request is processed successfully.",
      "CallbackMetadata": {
        "Item": [
          {"Name": "Amount", "Value": 4700.00},
          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
          {"Name": "TransactionDate", "Value": 20260314092653},
          {"Name": "PhoneNumber", "Value": 254712345678}
        ]
      }
    }
  }
}`

const failedSTKPayload = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 1032,
      "ResultDesc": "Request cancelled by user."
    }
  }
}`

func TestDecodeSTKCallback(t *testing.T) {
	t.Run("decodes successful callback", func(t *testing.T) {
		cb, err := DecodeSTKCallback([]byte(successSTKPayload))
		require.NoError(t, err)

		assert.True(t, cb.Succeeded())
		assert.Equal(t, "ws_CO_191220191020363925", cb.CheckoutRequestID)
		assert.Equal(t, "NLJ7RT61SV", cb.ReceiptNumber())
		assert.Equal(t, float64(4700), cb.Metadata["Amount"])

		date := cb.TransactionDate()
		require.NotNil(t, date)
		assert.Equal(t, 2026, date.Year())
		assert.Equal(t, 14, date.Day())
	})

	t.Run("decodes failed callback without metadata", func(t *testing.T) {
		cb, err := DecodeSTKCallback([]byte(failedSTKPayload))
		require.NoError(t, err)

		assert.False(t, cb.Succeeded())
		assert.Equal(t, 1032, cb.ResultCode)
		assert.Empty(t, cb.ReceiptNumber())
		assert.Nil(t, cb.TransactionDate())
	})

	t.Run("missing stkCallback node is a ParseError", func(t *testing.T) {
		_, err := DecodeSTKCallback([]byte(`{"Body": {}}`))
		require.Error(t, err)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "Body.stkCallback", parseErr.Field)
	})

	t.Run("malformed JSON is a ParseError", func(t *testing.T) {
		_, err := DecodeSTKCallback([]byte(`{`))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}

const balanceResultPayload = `{
  "Result": {
    "ResultType": 0,
    "ResultCode": 0,
    "ResultDesc": "The service request is processed successfully.",
    "OriginatorConversationID": "16917-22577599-3",
    "ConversationID": "AG_20260827_0000449d84b5b43d8cf6",
    "TransactionID": "SH561H6SY7",
    "ResultParameters": {
      "ResultParameter": [
        {"Key": "AccountBalance", "Value": "Working Account|KES|481000.00|481000.00|0.00|0.00"},
        {"Key": "BOCompletedTime", "Value": 20260827111717}
      ]
    }
  }
}`

func TestDecodeQueryResult(t *testing.T) {
	t.Run("decodes balance result", func(t *testing.T) {
		result, err := DecodeQueryResult([]byte(balanceResultPayload))
		require.NoError(t, err)

		assert.Equal(t, 0, result.ResultCode)
		assert.Equal(t, "SH561H6SY7", result.TransactionID)
		assert.Contains(t, result.Parameters["AccountBalance"], "Working Account")
	})

	t.Run("missing Result node is a ParseError", func(t *testing.T) {
		_, err := DecodeQueryResult([]byte(`{}`))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "Result", parseErr.Field)
	})
}

func TestNormalizeMSISDN(t *testing.T) {
	cases := map[string]string{
		"0712345678":     "254712345678",
		"+254712345678":  "254712345678",
		"254712345678":   "254712345678",
		" 0712 345 678 ": "254712345678",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeMSISDN(input), "input %q", input)
	}
}
