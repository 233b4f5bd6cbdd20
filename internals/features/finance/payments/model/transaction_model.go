package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Canonical, gateway-independent vocabulary. Adapters translate
   their native statuses before anything reaches this model. */

const (
	TransactionStatusPending  = "pending"
	TransactionStatusPaid     = "paid"
	TransactionStatusFailed   = "failed"
	TransactionStatusRefunded = "refunded"
)

const (
	TransactionProviderMidtrans = "midtrans"
	TransactionProviderStripe   = "stripe"
)

var ErrProviderIDConflict = errors.New("transaction must reference exactly one gateway payment id")

/* ===================== Model ===================== */

type Transaction struct {
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;default:gen_random_uuid();primaryKey" json:"transaction_id"`

	TransactionUserID         *uuid.UUID `gorm:"column:transaction_user_id;type:uuid" json:"transaction_user_id,omitempty"`
	TransactionSchoolID       *uuid.UUID `gorm:"column:transaction_school_id;type:uuid" json:"transaction_school_id,omitempty"`
	TransactionSubscriptionID *uuid.UUID `gorm:"column:transaction_subscription_id;type:uuid" json:"transaction_subscription_id,omitempty"`

	// Amount is in minor currency units. Never floating point.
	TransactionAmount   int64  `gorm:"column:transaction_amount;not null;check:transaction_amount >= 0" json:"transaction_amount"`
	TransactionCurrency string `gorm:"column:transaction_currency;type:varchar(8);not null;default:USD" json:"transaction_currency"`

	TransactionStatus      string `gorm:"column:transaction_status;type:varchar(16);not null;default:'pending'" json:"transaction_status"`
	TransactionPaymentType string `gorm:"column:transaction_payment_type;type:varchar(64)" json:"transaction_payment_type"`

	TransactionDescription *string `gorm:"column:transaction_description" json:"transaction_description,omitempty"`

	// Exactly one of these is set, never both, never neither once created.
	TransactionMidtransOrderID       *string `gorm:"column:transaction_midtrans_order_id;uniqueIndex:uq_transactions_midtrans_order_id" json:"transaction_midtrans_order_id,omitempty"`
	TransactionStripePaymentIntentID *string `gorm:"column:transaction_stripe_payment_intent_id;uniqueIndex:uq_transactions_stripe_pi_id" json:"transaction_stripe_payment_intent_id,omitempty"`

	// Sanitized key/value metadata; the ledger strips everything that is
	// not on the persistence allow-list before this is set.
	TransactionMetadata datatypes.JSONMap `gorm:"column:transaction_metadata;type:jsonb" json:"transaction_metadata,omitempty"`

	TransactionPaidAt     *time.Time `gorm:"column:transaction_paid_at" json:"transaction_paid_at,omitempty"`
	TransactionFailedAt   *time.Time `gorm:"column:transaction_failed_at" json:"transaction_failed_at,omitempty"`
	TransactionRefundedAt *time.Time `gorm:"column:transaction_refunded_at" json:"transaction_refunded_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:transaction_created_at;autoCreateTime" json:"transaction_created_at"`
	UpdatedAt time.Time      `gorm:"column:transaction_updated_at;autoUpdateTime" json:"transaction_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:transaction_deleted_at;index" json:"transaction_deleted_at,omitempty"`
}

func (Transaction) TableName() string { return "transactions" }

/* ===================== Helpers ===================== */

// SetProviderPaymentID assigns the gateway payment id to the column owned
// by the provider, enforcing the exactly-one invariant.
func (t *Transaction) SetProviderPaymentID(provider, id string) error {
	if id == "" {
		return ErrProviderIDConflict
	}
	switch provider {
	case TransactionProviderMidtrans:
		if t.TransactionStripePaymentIntentID != nil {
			return ErrProviderIDConflict
		}
		t.TransactionMidtransOrderID = &id
	case TransactionProviderStripe:
		if t.TransactionMidtransOrderID != nil {
			return ErrProviderIDConflict
		}
		t.TransactionStripePaymentIntentID = &id
	default:
		return ErrProviderIDConflict
	}
	return nil
}

// ProviderPaymentID returns the provider name and the gateway payment id.
func (t *Transaction) ProviderPaymentID() (string, string) {
	if t.TransactionMidtransOrderID != nil {
		return TransactionProviderMidtrans, *t.TransactionMidtransOrderID
	}
	if t.TransactionStripePaymentIntentID != nil {
		return TransactionProviderStripe, *t.TransactionStripePaymentIntentID
	}
	return "", ""
}

// IsSettled reports whether the row reached a terminal state that must not
// be downgraded by late or out-of-order webhooks.
func (t *Transaction) IsSettled() bool {
	return t.TransactionStatus == TransactionStatusPaid || t.TransactionStatus == TransactionStatusRefunded
}
