package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SideEffectTypeImmediateEnrollment = "immediate_enrollment"
)

// PaymentSideEffect is the persisted idempotency record for business-state
// transitions triggered by a payment. The composite key
// (provider payment id, effect type) guarantees at-most-once application
// even when the synchronous path and the webhook path race.
type PaymentSideEffect struct {
	SideEffectID uuid.UUID `gorm:"column:side_effect_id;type:uuid;default:gen_random_uuid();primaryKey" json:"side_effect_id"`

	SideEffectProviderPaymentID string `gorm:"column:side_effect_provider_payment_id;not null;uniqueIndex:uq_payment_side_effects_key,priority:1" json:"side_effect_provider_payment_id"`
	SideEffectType              string `gorm:"column:side_effect_type;type:varchar(64);not null;uniqueIndex:uq_payment_side_effects_key,priority:2" json:"side_effect_type"`

	// Result of the first successful application, replayed on duplicates.
	SideEffectResult datatypes.JSONMap `gorm:"column:side_effect_result;type:jsonb" json:"side_effect_result,omitempty"`

	SideEffectAppliedAt time.Time `gorm:"column:side_effect_applied_at;autoCreateTime" json:"side_effect_applied_at"`
}

func (PaymentSideEffect) TableName() string { return "payment_side_effects" }
