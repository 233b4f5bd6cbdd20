// Package gateway wraps the external payment providers behind one
// provider-agnostic contract. Each adapter owns the mapping from its native
// status vocabulary to the canonical one; nothing above this package ever
// inspects a gateway-native status string.
package gateway

import (
	"context"
	"time"
)

type Provider string

const (
	ProviderMidtrans Provider = "midtrans"
	ProviderStripe   Provider = "stripe"
)

func (p Provider) Valid() bool {
	return p == ProviderMidtrans || p == ProviderStripe
}

/* =========================================================
   Canonical vocabulary
========================================================= */

type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusPaid     PaymentStatus = "paid"
	StatusFailed   PaymentStatus = "failed"
	StatusRefunded PaymentStatus = "refunded"
)

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
	RefundFailed    RefundStatus = "failed"
	RefundCancelled RefundStatus = "cancelled"
)

/* =========================================================
   Value objects returned by adapters. Ephemeral: translated
   into the ledger model before anything is persisted.
========================================================= */

type PaymentIntent struct {
	// ID is the gateway's payment identity (midtrans order_id,
	// stripe payment intent id). It is the idempotency key for every
	// downstream side effect.
	ID           string
	Provider     Provider
	Status       PaymentStatus
	NativeStatus string
	Amount       int64 // minor currency units, never floating point
	Currency     string
	CustomerID   string
	CheckoutURL  string
	ClientToken  string
	CreatedAt    time.Time
}

type PaymentCustomer struct {
	ID       string
	Provider Provider
	Email    string
	Name     string
	Phone    string
	Metadata map[string]string
}

type RefundResult struct {
	ID           string
	Provider     Provider
	PaymentID    string
	Amount       int64
	Status       RefundStatus
	NativeStatus string
}

// WebhookEvent is the canonical form of a verified gateway callback.
// Status is empty for events that do not describe a payment (for example
// subscription lifecycle events).
type WebhookEvent struct {
	Provider          Provider
	Type              string
	ProviderPaymentID string
	Status            PaymentStatus
	Data              map[string]any
}

/* =========================================================
   Inputs
========================================================= */

type CustomerDetails struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type CreatePaymentInput struct {
	Amount      int64
	Currency    string
	CustomerID  string
	Description string
	// PaymentMethodID makes the charge synchronous when the provider
	// supports confirm-on-create.
	PaymentMethodID string
	Customer        *CustomerDetails
	// Metadata is echoed to the gateway as-is; persistence-side
	// sanitization is the ledger's job, not the adapter's.
	Metadata map[string]any
}

type CreateCustomerInput struct {
	Email    string
	Name     string
	Phone    string
	Metadata map[string]string
}

/* =========================================================
   Contract
========================================================= */

// PaymentGateway is implemented once per provider. Adapters perform no
// retries; any network or HTTP failure from the provider comes back as a
// *GatewayError.
type PaymentGateway interface {
	Provider() Provider
	CreatePayment(ctx context.Context, in CreatePaymentInput) (*PaymentIntent, error)
	GetPayment(ctx context.Context, id string) (*PaymentIntent, error)
	CreateCustomer(ctx context.Context, in CreateCustomerInput) (*PaymentCustomer, error)
	GetCustomer(ctx context.Context, id string) (*PaymentCustomer, error)
	RefundPayment(ctx context.Context, paymentID string, amount *int64, reason string) (*RefundResult, error)
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// SubscriptionGateway is implemented by providers that manage recurring
// billing remotely.
type SubscriptionGateway interface {
	CancelAtPeriodEnd(ctx context.Context, providerSubscriptionID string) error
}
