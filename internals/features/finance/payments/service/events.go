package service

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/model"
)

// WebhookEventLog records every verified gateway callback for audit and
// reconciliation. Logging failures never fail webhook processing; callers
// treat the returned error as advisory.
type WebhookEventLog struct {
	DB *gorm.DB
}

func NewWebhookEventLog(db *gorm.DB) *WebhookEventLog {
	return &WebhookEventLog{DB: db}
}

func (l *WebhookEventLog) Record(ctx context.Context, ev *gateway.WebhookEvent, payload []byte) (*model.PaymentWebhookEvent, error) {
	row := model.PaymentWebhookEvent{
		WebhookEventProvider: string(ev.Provider),
		WebhookEventStatus:   model.WebhookEventStatusReceived,
	}
	if ev.Type != "" {
		t := ev.Type
		row.WebhookEventType = &t
	}
	if ev.ProviderPaymentID != "" {
		id := ev.ProviderPaymentID
		row.WebhookEventProviderPaymentID = &id
	}
	if len(payload) > 0 {
		row.WebhookEventPayload = datatypes.JSON(payload)
	}

	db := dbFrom(ctx, l.DB)
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (l *WebhookEventLog) MarkOutcome(ctx context.Context, row *model.PaymentWebhookEvent, status string, procErr error) error {
	if row == nil {
		return nil
	}
	now := time.Now()
	updates := map[string]any{
		"webhook_event_status":       status,
		"webhook_event_processed_at": now,
	}
	if procErr != nil {
		msg := procErr.Error()
		updates["webhook_event_error"] = msg
	}
	db := dbFrom(ctx, l.DB)
	return db.WithContext(ctx).
		Model(&model.PaymentWebhookEvent{}).
		Where("webhook_event_id = ?", row.WebhookEventID).
		Updates(updates).Error
}
