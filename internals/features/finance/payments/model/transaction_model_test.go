package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetProviderPaymentID(t *testing.T) {
	t.Run("midtrans id", func(t *testing.T) {
		var tr Transaction
		require.NoError(t, tr.SetProviderPaymentID(TransactionProviderMidtrans, "ord-1"))

		provider, id := tr.ProviderPaymentID()
		assert.Equal(t, TransactionProviderMidtrans, provider)
		assert.Equal(t, "ord-1", id)
		assert.Nil(t, tr.TransactionStripePaymentIntentID)
	})

	t.Run("stripe id", func(t *testing.T) {
		var tr Transaction
		require.NoError(t, tr.SetProviderPaymentID(TransactionProviderStripe, "pi_1"))

		provider, id := tr.ProviderPaymentID()
		assert.Equal(t, TransactionProviderStripe, provider)
		assert.Equal(t, "pi_1", id)
		assert.Nil(t, tr.TransactionMidtransOrderID)
	})

	t.Run("second provider rejected", func(t *testing.T) {
		var tr Transaction
		require.NoError(t, tr.SetProviderPaymentID(TransactionProviderMidtrans, "ord-1"))
		assert.ErrorIs(t, tr.SetProviderPaymentID(TransactionProviderStripe, "pi_1"), ErrProviderIDConflict)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		var tr Transaction
		assert.ErrorIs(t, tr.SetProviderPaymentID(TransactionProviderMidtrans, ""), ErrProviderIDConflict)
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		var tr Transaction
		assert.ErrorIs(t, tr.SetProviderPaymentID("paypal", "x"), ErrProviderIDConflict)
	})
}

func TestIsSettled(t *testing.T) {
	assert.False(t, (&Transaction{TransactionStatus: TransactionStatusPending}).IsSettled())
	assert.False(t, (&Transaction{TransactionStatus: TransactionStatusFailed}).IsSettled())
	assert.True(t, (&Transaction{TransactionStatus: TransactionStatusPaid}).IsSettled())
	assert.True(t, (&Transaction{TransactionStatus: TransactionStatusRefunded}).IsSettled())
}
