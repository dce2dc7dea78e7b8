package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(t *testing.T) *MpesaTransaction {
	t.Helper()
	tx, err := NewMpesaTransaction(uuid.New(), "ws_CO_123", "29115-34620561-1",
		"254712345678", decimal.NewFromInt(4700), "ABCDEF")
	require.NoError(t, err)
	return tx
}

func TestNewMpesaTransaction(t *testing.T) {
	t.Run("creates pending transaction", func(t *testing.T) {
		tx := newTestTransaction(t)
		assert.Equal(t, TransactionStatusPending, tx.Status)
		assert.False(t, tx.IsTerminal())
		assert.Nil(t, tx.ResultCode)
	})

	t.Run("rejects bad inputs", func(t *testing.T) {
		_, err := NewMpesaTransaction(uuid.Nil, "ws_CO_123", "m", "254712345678", decimal.NewFromInt(1), "AB")
		assert.Error(t, err)

		_, err = NewMpesaTransaction(uuid.New(), "", "m", "254712345678", decimal.NewFromInt(1), "AB")
		assert.Error(t, err)

		_, err = NewMpesaTransaction(uuid.New(), "ws_CO_123", "m", "", decimal.NewFromInt(1), "AB")
		assert.Error(t, err)

		_, err = NewMpesaTransaction(uuid.New(), "ws_CO_123", "m", "254712345678", decimal.Zero, "AB")
		assert.Error(t, err)
	})
}

func TestApplyCallbackResult(t *testing.T) {
	when := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("success completes the transaction", func(t *testing.T) {
		tx := newTestTransaction(t)
		changed, err := tx.ApplyCallbackResult(0, "Success", "QAB12CD34E", &when)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, TransactionStatusCompleted, tx.Status)
		assert.Equal(t, "QAB12CD34E", tx.MpesaReceiptNumber)
		require.NotNil(t, tx.ResultCode)
		assert.Equal(t, 0, *tx.ResultCode)
		require.NotNil(t, tx.TransactionDate)
		assert.True(t, when.Equal(*tx.TransactionDate))
	})

	t.Run("non-zero code fails the transaction", func(t *testing.T) {
		tx := newTestTransaction(t)
		changed, err := tx.ApplyCallbackResult(1032, "Request cancelled by user", "", nil)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, TransactionStatusFailed, tx.Status)
		assert.Empty(t, tx.MpesaReceiptNumber)
	})

	t.Run("success without receipt is rejected", func(t *testing.T) {
		tx := newTestTransaction(t)
		changed, err := tx.ApplyCallbackResult(0, "Success", "", nil)
		require.Error(t, err)
		assert.False(t, changed)
		assert.Equal(t, TransactionStatusPending, tx.Status)
	})

	t.Run("replay on terminal transaction changes nothing", func(t *testing.T) {
		tx := newTestTransaction(t)
		_, err := tx.ApplyCallbackResult(0, "Success", "QAB12CD34E", &when)
		require.NoError(t, err)

		changed, err := tx.ApplyCallbackResult(1032, "Request cancelled by user", "", nil)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, TransactionStatusCompleted, tx.Status)
		assert.Equal(t, "QAB12CD34E", tx.MpesaReceiptNumber)
	})
}
