package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RefundStatusPending   = "pending"
	RefundStatusProcessed = "processed"
	RefundStatusFailed    = "failed"
	RefundStatusCancelled = "cancelled"
)

type Refund struct {
	RefundID uuid.UUID `gorm:"column:refund_id;type:uuid;default:gen_random_uuid();primaryKey" json:"refund_id"`

	RefundTransactionID *uuid.UUID `gorm:"column:refund_transaction_id;type:uuid" json:"refund_transaction_id,omitempty"`

	RefundProviderRefundID *string `gorm:"column:refund_provider_refund_id;uniqueIndex:uq_refunds_provider_refund_id" json:"refund_provider_refund_id,omitempty"`

	// Never exceeds the original transaction amount.
	RefundAmount int64   `gorm:"column:refund_amount;not null;check:refund_amount >= 0" json:"refund_amount"`
	RefundReason *string `gorm:"column:refund_reason" json:"refund_reason,omitempty"`

	RefundStatus string `gorm:"column:refund_status;type:varchar(16);not null;default:'pending'" json:"refund_status"`

	RefundRequestedBy *uuid.UUID `gorm:"column:refund_requested_by;type:uuid" json:"refund_requested_by,omitempty"`
	RefundProcessedBy *uuid.UUID `gorm:"column:refund_processed_by;type:uuid" json:"refund_processed_by,omitempty"`

	CreatedAt time.Time      `gorm:"column:refund_created_at;autoCreateTime" json:"refund_created_at"`
	UpdatedAt time.Time      `gorm:"column:refund_updated_at;autoUpdateTime" json:"refund_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:refund_deleted_at;index" json:"refund_deleted_at,omitempty"`
}

func (Refund) TableName() string { return "refunds" }
