package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStripeStatus(t *testing.T) {
	tests := []struct {
		native string
		want   PaymentStatus
	}{
		{"succeeded", StatusPaid},
		{"processing", StatusPending},
		{"requires_action", StatusPending},
		{"requires_confirmation", StatusPending},
		{"requires_payment_method", StatusPending},
		{"requires_capture", StatusPending},
		{"canceled", StatusFailed},
		{"totally_new_status", StatusFailed},
		{"", StatusFailed},
		{"  SUCCEEDED ", StatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.native, func(t *testing.T) {
			assert.Equal(t, tt.want, mapStripeStatus(tt.native))
		})
	}
}

func TestMapStripeRefundStatus(t *testing.T) {
	assert.Equal(t, RefundProcessed, mapStripeRefundStatus("succeeded"))
	assert.Equal(t, RefundPending, mapStripeRefundStatus("pending"))
	assert.Equal(t, RefundFailed, mapStripeRefundStatus("failed"))
	assert.Equal(t, RefundCancelled, mapStripeRefundStatus("canceled"))
	assert.Equal(t, RefundFailed, mapStripeRefundStatus("something_else"))
}

// stripeSignatureHeader reproduces the signed-payload scheme stripe uses for
// webhook deliveries: v1 = HMAC-SHA256(secret, "<timestamp>.<payload>").
func stripeSignatureHeader(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeVerifyWebhook(t *testing.T) {
	const secret = "whsec_test_secret"
	g := NewStripeGateway(StripeConfig{SecretKey: "sk_test_x", WebhookSecret: secret})

	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2025-04-30.basil",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "object": "payment_intent", "status": "succeeded"}}
	}`)

	t.Run("valid signature", func(t *testing.T) {
		ev, err := g.VerifyWebhook(payload, stripeSignatureHeader(payload, secret, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, ProviderStripe, ev.Provider)
		assert.Equal(t, "payment_intent.succeeded", ev.Type)
		assert.Equal(t, "pi_123", ev.ProviderPaymentID)
		assert.Equal(t, StatusPaid, ev.Status)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		_, err := g.VerifyWebhook(payload, stripeSignatureHeader(payload, "whsec_other", time.Now()))
		var ve *WebhookVerificationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("stale timestamp rejected", func(t *testing.T) {
		_, err := g.VerifyWebhook(payload, stripeSignatureHeader(payload, secret, time.Now().Add(-time.Hour)))
		var ve *WebhookVerificationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("missing header rejected", func(t *testing.T) {
		_, err := g.VerifyWebhook(payload, "")
		var ve *WebhookVerificationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("charge refunded event", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_2",
			"object": "event",
			"api_version": "2025-04-30.basil",
			"type": "charge.refunded",
			"data": {"object": {"id": "ch_1", "object": "charge", "payment_intent": "pi_123"}}
		}`)
		ev, err := g.VerifyWebhook(body, stripeSignatureHeader(body, secret, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, "pi_123", ev.ProviderPaymentID)
		assert.Equal(t, StatusRefunded, ev.Status)
	})

	t.Run("subscription event carries no payment id", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_3",
			"object": "event",
			"api_version": "2025-04-30.basil",
			"type": "customer.subscription.deleted",
			"data": {"object": {"id": "sub_9", "object": "subscription", "status": "canceled"}}
		}`)
		ev, err := g.VerifyWebhook(body, stripeSignatureHeader(body, secret, time.Now()))
		require.NoError(t, err)
		assert.Empty(t, ev.ProviderPaymentID)
		assert.Empty(t, string(ev.Status))
		assert.Equal(t, "sub_9", ev.Data["id"])
	})
}
