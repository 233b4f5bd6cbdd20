package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

/* =========================================================
   Stripe adapter — synchronous card flow. A PaymentIntent
   confirmed with a payment method resolves to its terminal
   state within the create call itself.
========================================================= */

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway builds a dedicated API client so the secret key never
// lives in package-global state.
func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{api: api, webhookSecret: cfg.WebhookSecret}
}

func (g *StripeGateway) Provider() Provider { return ProviderStripe }

/* =========================================================
   Status mapping (native → canonical, fail-closed)
========================================================= */

var stripeStatusTable = map[string]PaymentStatus{
	"succeeded":               StatusPaid,
	"processing":              StatusPending,
	"requires_action":         StatusPending,
	"requires_confirmation":   StatusPending,
	"requires_payment_method": StatusPending,
	"requires_capture":        StatusPending,
	"canceled":                StatusFailed,
}

func mapStripeStatus(native string) PaymentStatus {
	if s, ok := stripeStatusTable[strings.ToLower(strings.TrimSpace(native))]; ok {
		return s
	}
	return StatusFailed
}

var stripeRefundStatusTable = map[string]RefundStatus{
	"succeeded": RefundProcessed,
	"pending":   RefundPending,
	"failed":    RefundFailed,
	"canceled":  RefundCancelled,
}

func mapStripeRefundStatus(native string) RefundStatus {
	if s, ok := stripeRefundStatusTable[strings.ToLower(strings.TrimSpace(native))]; ok {
		return s
	}
	return RefundFailed
}

/* =========================================================
   Operations
========================================================= */

func (g *StripeGateway) CreatePayment(ctx context.Context, in CreatePaymentInput) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(strings.ToLower(in.Currency)),
	}
	params.Context = ctx
	if in.CustomerID != "" {
		params.Customer = stripe.String(in.CustomerID)
	}
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	if in.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(in.PaymentMethodID)
		params.Confirm = stripe.Bool(true)
		params.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		}
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, fmt.Sprint(v))
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		// a declined confirm still carries the intent id; surface it so
		// the failed attempt lands in the ledger under a real identity
		var se *stripe.Error
		if errors.As(err, &se) && se.PaymentIntent != nil {
			return intentFromStripe(se.PaymentIntent), g.wrapErr(err)
		}
		return nil, g.wrapErr(err)
	}
	return intentFromStripe(pi), nil
}

func (g *StripeGateway) GetPayment(ctx context.Context, id string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, g.wrapErr(err)
	}
	return intentFromStripe(pi), nil
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*PaymentCustomer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(in.Email),
		Name:  stripe.String(in.Name),
	}
	params.Context = ctx
	if in.Phone != "" {
		params.Phone = stripe.String(in.Phone)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	cus, err := g.api.Customers.New(params)
	if err != nil {
		return nil, g.wrapErr(err)
	}
	return customerFromStripe(cus), nil
}

func (g *StripeGateway) GetCustomer(ctx context.Context, id string) (*PaymentCustomer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	cus, err := g.api.Customers.Get(id, params)
	if err != nil {
		return nil, g.wrapErr(err)
	}
	return customerFromStripe(cus), nil
}

func (g *StripeGateway) RefundPayment(ctx context.Context, paymentID string, amount *int64, reason string) (*RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
	}
	params.Context = ctx
	if amount != nil {
		params.Amount = stripe.Int64(*amount)
	}
	if reason != "" {
		// free-text reasons do not fit stripe's enum, keep them in metadata
		params.AddMetadata("reason", reason)
	}

	r, err := g.api.Refunds.New(params)
	if err != nil {
		return nil, g.wrapErr(err)
	}
	return &RefundResult{
		ID:           r.ID,
		Provider:     ProviderStripe,
		PaymentID:    paymentID,
		Amount:       r.Amount,
		Status:       mapStripeRefundStatus(string(r.Status)),
		NativeStatus: string(r.Status),
	}, nil
}

// CancelAtPeriodEnd flags the remote subscription without ending it
// immediately; the terminal status arrives later via webhook.
func (g *StripeGateway) CancelAtPeriodEnd(ctx context.Context, providerSubscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx
	if _, err := g.api.Subscriptions.Update(providerSubscriptionID, params); err != nil {
		return g.wrapErr(err)
	}
	return nil
}

/* =========================================================
   Webhook verification (HMAC-SHA256 + timestamp tolerance)
========================================================= */

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, &WebhookVerificationError{Provider: ProviderStripe, Reason: err.Error()}
	}

	ev := &WebhookEvent{
		Provider: ProviderStripe,
		Type:     string(event.Type),
		Data:     event.Data.Object,
	}
	if strings.HasPrefix(ev.Type, "payment_intent.") {
		if id, ok := event.Data.Object["id"].(string); ok {
			ev.ProviderPaymentID = id
		}
		if native, ok := event.Data.Object["status"].(string); ok {
			ev.Status = mapStripeStatus(native)
		}
	}
	if ev.Type == "charge.refunded" {
		if id, ok := event.Data.Object["payment_intent"].(string); ok {
			ev.ProviderPaymentID = id
		}
		ev.Status = StatusRefunded
	}
	return ev, nil
}

/* =========================================================
   Mapping helpers
========================================================= */

func intentFromStripe(pi *stripe.PaymentIntent) *PaymentIntent {
	out := &PaymentIntent{
		ID:           pi.ID,
		Provider:     ProviderStripe,
		Status:       mapStripeStatus(string(pi.Status)),
		NativeStatus: string(pi.Status),
		Amount:       pi.Amount,
		Currency:     strings.ToUpper(string(pi.Currency)),
		ClientToken:  pi.ClientSecret,
		CreatedAt:    time.Unix(pi.Created, 0),
	}
	if pi.Customer != nil {
		out.CustomerID = pi.Customer.ID
	}
	return out
}

func customerFromStripe(cus *stripe.Customer) *PaymentCustomer {
	return &PaymentCustomer{
		ID:       cus.ID,
		Provider: ProviderStripe,
		Email:    cus.Email,
		Name:     cus.Name,
		Phone:    cus.Phone,
		Metadata: cus.Metadata,
	}
}

func (g *StripeGateway) wrapErr(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = string(se.Code)
		}
		return NewGatewayError(ProviderStripe, msg, err)
	}
	return NewGatewayError(ProviderStripe, err.Error(), err)
}
