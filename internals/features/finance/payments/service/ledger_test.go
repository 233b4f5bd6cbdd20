package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/model"
)

func TestSanitizeMetadata(t *testing.T) {
	t.Run("keeps allow-listed keys only", func(t *testing.T) {
		out := SanitizeMetadata(map[string]any{
			"intent":          "enroll",
			"lead_id":         "9e5f2c68-9f2e-4fd7-8f0c-1c2a3b4d5e6f",
			"program":         "toddler",
			"card_number":     "4111111111111111",
			"internal_notes":  "do not store",
			"customer_secret": "hunter2",
		})
		assert.Equal(t, "enroll", out["intent"])
		assert.Equal(t, "toddler", out["program"])
		assert.NotContains(t, out, "card_number")
		assert.NotContains(t, out, "internal_notes")
		assert.NotContains(t, out, "customer_secret")
		assert.Len(t, out, 3)
	})

	t.Run("nil for empty input", func(t *testing.T) {
		assert.Nil(t, SanitizeMetadata(nil))
		assert.Nil(t, SanitizeMetadata(map[string]any{}))
	})

	t.Run("nil when nothing survives", func(t *testing.T) {
		assert.Nil(t, SanitizeMetadata(map[string]any{"cvv": "123"}))
	})
}

func TestCanonicalStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"paid", model.TransactionStatusPaid},
		{"pending", model.TransactionStatusPending},
		{"refunded", model.TransactionStatusRefunded},
		{"failed", model.TransactionStatusFailed},
		{"SUCCEEDED", model.TransactionStatusPaid},
		{"succeeded", model.TransactionStatusPaid},
		{"PENDING", model.TransactionStatusPending},
		{"PROCESSING", model.TransactionStatusPending},
		{"REFUNDED", model.TransactionStatusRefunded},
		{"FAILED", model.TransactionStatusFailed},
		{"", model.TransactionStatusFailed},
		{"gibberish", model.TransactionStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalStatus(tt.in))
		})
	}
}
