package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	WebhookEventStatusReceived  = "received"
	WebhookEventStatusProcessed = "processed"
	WebhookEventStatusIgnored   = "ignored"
	WebhookEventStatusFailed    = "failed"
)

// PaymentWebhookEvent is the delivery ledger for gateway callbacks: every
// verified notification is recorded here whether or not it matched a
// transaction, so reconciliation has a full audit trail.
type PaymentWebhookEvent struct {
	WebhookEventID uuid.UUID `gorm:"column:webhook_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"webhook_event_id"`

	WebhookEventProvider          string  `gorm:"column:webhook_event_provider;type:varchar(16);not null" json:"webhook_event_provider"`
	WebhookEventType              *string `gorm:"column:webhook_event_type" json:"webhook_event_type,omitempty"`
	WebhookEventProviderPaymentID *string `gorm:"column:webhook_event_provider_payment_id;index" json:"webhook_event_provider_payment_id,omitempty"`

	WebhookEventPayload datatypes.JSON `gorm:"column:webhook_event_payload;type:jsonb" json:"webhook_event_payload,omitempty"`

	WebhookEventStatus string  `gorm:"column:webhook_event_status;type:varchar(16);not null;default:'received'" json:"webhook_event_status"`
	WebhookEventError  *string `gorm:"column:webhook_event_error" json:"webhook_event_error,omitempty"`

	WebhookEventReceivedAt  time.Time  `gorm:"column:webhook_event_received_at;autoCreateTime" json:"webhook_event_received_at"`
	WebhookEventProcessedAt *time.Time `gorm:"column:webhook_event_processed_at" json:"webhook_event_processed_at,omitempty"`
}

func (PaymentWebhookEvent) TableName() string { return "payment_webhook_events" }
