package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusTrialing  = "trialing"
	SubscriptionStatusPastDue   = "past_due"
	SubscriptionStatusUnpaid    = "unpaid"
	SubscriptionStatusCancelled = "cancelled"
)

type Subscription struct {
	SubscriptionID uuid.UUID `gorm:"column:subscription_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subscription_id"`

	SubscriptionUserID   uuid.UUID  `gorm:"column:subscription_user_id;type:uuid;not null;index" json:"subscription_user_id"`
	SubscriptionSchoolID *uuid.UUID `gorm:"column:subscription_school_id;type:uuid;index" json:"subscription_school_id,omitempty"`

	// Set when the subscription is billed by an external gateway; local-only
	// subscriptions leave both nil.
	SubscriptionProviderSubscriptionID *string `gorm:"column:subscription_provider_subscription_id;uniqueIndex:uq_subscriptions_provider_sub_id" json:"subscription_provider_subscription_id,omitempty"`
	SubscriptionProviderCustomerID     *string `gorm:"column:subscription_provider_customer_id" json:"subscription_provider_customer_id,omitempty"`

	SubscriptionPlanType string `gorm:"column:subscription_plan_type;type:varchar(64);not null" json:"subscription_plan_type"`
	SubscriptionStatus   string `gorm:"column:subscription_status;type:varchar(16);not null;default:'active'" json:"subscription_status"`

	// Amount is in minor currency units.
	SubscriptionAmount   int64  `gorm:"column:subscription_amount;not null;default:0;check:subscription_amount >= 0" json:"subscription_amount"`
	SubscriptionCurrency string `gorm:"column:subscription_currency;type:varchar(8);not null;default:USD" json:"subscription_currency"`

	// Two-phase cancellation: the flag is set locally first, the status
	// flips to cancelled only when the period actually ends.
	SubscriptionCancelAtPeriodEnd bool `gorm:"column:subscription_cancel_at_period_end;not null;default:false" json:"subscription_cancel_at_period_end"`

	SubscriptionCurrentPeriodStart *time.Time `gorm:"column:subscription_current_period_start" json:"subscription_current_period_start,omitempty"`
	SubscriptionCurrentPeriodEnd   *time.Time `gorm:"column:subscription_current_period_end" json:"subscription_current_period_end,omitempty"`
	SubscriptionCancelledAt        *time.Time `gorm:"column:subscription_cancelled_at" json:"subscription_cancelled_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:subscription_created_at;autoCreateTime" json:"subscription_created_at"`
	UpdatedAt time.Time      `gorm:"column:subscription_updated_at;autoUpdateTime" json:"subscription_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:subscription_deleted_at;index" json:"subscription_deleted_at,omitempty"`
}

func (Subscription) TableName() string { return "subscriptions" }

// IsTerminal reports whether no further lifecycle transitions apply.
func (s *Subscription) IsTerminal() bool {
	return s.SubscriptionStatus == SubscriptionStatusCancelled
}
