package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/model"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRefundExceedsAmount = errors.New("refund amount exceeds original transaction amount")
)

/* =========================================================
   Metadata sanitization — explicit allow-list. Anything not
   listed here never reaches storage, so a newly introduced
   sensitive field cannot leak by default.
========================================================= */

var metadataAllowList = map[string]struct{}{
	"intent":       {},
	"lead_id":      {},
	"school_id":    {},
	"program":      {},
	"student_name": {},
	"plan_type":    {},
	"invoice_id":   {},
	"period":       {},
	"source":       {},
}

func SanitizeMetadata(in map[string]any) datatypes.JSONMap {
	if len(in) == 0 {
		return nil
	}
	out := datatypes.JSONMap{}
	for k, v := range in {
		if _, ok := metadataAllowList[k]; ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

/* =========================================================
   Canonical status normalization
   SUCCEEDED→paid, PENDING|PROCESSING→pending,
   REFUNDED→refunded, anything else→failed.
========================================================= */

func CanonicalStatus(s string) string {
	switch gateway.PaymentStatus(s) {
	case gateway.StatusPaid:
		return model.TransactionStatusPaid
	case gateway.StatusPending:
		return model.TransactionStatusPending
	case gateway.StatusRefunded:
		return model.TransactionStatusRefunded
	}
	// adapters speak canonical already; this second table only exists so
	// callers feeding raw vocabulary (tests, backfills) stay fail-closed
	switch s {
	case "SUCCEEDED", "succeeded":
		return model.TransactionStatusPaid
	case "PENDING", "PROCESSING", "processing":
		return model.TransactionStatusPending
	case "REFUNDED":
		return model.TransactionStatusRefunded
	default:
		return model.TransactionStatusFailed
	}
}

/* =========================================================
   Ledger service
========================================================= */

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

type RecordAttemptInput struct {
	Provider          gateway.Provider
	ProviderPaymentID string
	Amount            int64
	Currency          string
	Status            string
	PaymentType       string
	Description       string
	Metadata          map[string]any
	UserID            *uuid.UUID
	SchoolID          *uuid.UUID
	SubscriptionID    *uuid.UUID
}

// RecordAttempt appends one ledger row per gateway call, success or
// failure. Inserts are insert-or-ignore on the provider-id unique index:
// a concurrent duplicate returns the existing row instead of erroring.
func (s *LedgerService) RecordAttempt(ctx context.Context, in RecordAttemptInput) (*model.Transaction, bool, error) {
	now := time.Now()

	tr := model.Transaction{
		TransactionAmount:         in.Amount,
		TransactionCurrency:       in.Currency,
		TransactionStatus:         CanonicalStatus(in.Status),
		TransactionPaymentType:    in.PaymentType,
		TransactionMetadata:       SanitizeMetadata(in.Metadata),
		TransactionUserID:         in.UserID,
		TransactionSchoolID:       in.SchoolID,
		TransactionSubscriptionID: in.SubscriptionID,
	}
	if in.Description != "" {
		tr.TransactionDescription = &in.Description
	}
	if err := tr.SetProviderPaymentID(string(in.Provider), in.ProviderPaymentID); err != nil {
		return nil, false, err
	}
	switch tr.TransactionStatus {
	case model.TransactionStatusPaid:
		tr.TransactionPaidAt = &now
	case model.TransactionStatusFailed:
		tr.TransactionFailedAt = &now
	}

	db := dbFrom(ctx, s.DB)
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tr)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := s.FindByProviderPaymentID(ctx, in.Provider, in.ProviderPaymentID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return &tr, true, nil
}

func (s *LedgerService) FindByProviderPaymentID(ctx context.Context, provider gateway.Provider, id string) (*model.Transaction, error) {
	db := dbFrom(ctx, s.DB)

	var column string
	switch provider {
	case gateway.ProviderMidtrans:
		column = "transaction_midtrans_order_id"
	case gateway.ProviderStripe:
		column = "transaction_stripe_payment_intent_id"
	default:
		return nil, &gateway.UnsupportedProviderError{Provider: provider}
	}

	var tr model.Transaction
	err := db.WithContext(ctx).
		First(&tr, fmt.Sprintf("%s = ? AND transaction_deleted_at IS NULL", column), id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tr, nil
}

// ApplyGatewayStatus moves a ledger row per a gateway-reported state.
// Settled rows are immutable except for the refund transition; late
// PENDING reports never downgrade a terminal status.
func (s *LedgerService) ApplyGatewayStatus(ctx context.Context, tr *model.Transaction, status string) error {
	next := CanonicalStatus(status)
	if tr.TransactionStatus == next {
		return nil
	}
	if tr.IsSettled() && next != model.TransactionStatusRefunded {
		return nil
	}

	now := time.Now()
	updates := map[string]any{"transaction_status": next}
	switch next {
	case model.TransactionStatusPaid:
		updates["transaction_paid_at"] = now
	case model.TransactionStatusFailed:
		updates["transaction_failed_at"] = now
	case model.TransactionStatusRefunded:
		updates["transaction_refunded_at"] = now
	}

	db := dbFrom(ctx, s.DB)
	if err := db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("transaction_id = ?", tr.TransactionID).
		Updates(updates).Error; err != nil {
		return err
	}
	tr.TransactionStatus = next
	return nil
}

// RecordRefund persists the refund row and marks the transaction REFUNDED,
// both inside one transaction and only after the gateway confirmed.
func (s *LedgerService) RecordRefund(ctx context.Context, tr *model.Transaction, res *gateway.RefundResult, reason string, requestedBy *uuid.UUID) (*model.Refund, error) {
	if res.Amount > tr.TransactionAmount {
		return nil, ErrRefundExceedsAmount
	}

	ref := model.Refund{
		RefundTransactionID: &tr.TransactionID,
		RefundAmount:        res.Amount,
		RefundStatus:        string(res.Status),
		RefundRequestedBy:   requestedBy,
	}
	if res.ID != "" {
		id := res.ID
		ref.RefundProviderRefundID = &id
	}
	if reason != "" {
		ref.RefundReason = &reason
	}

	db := dbFrom(ctx, s.DB)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ires := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref)
		if ires.Error != nil {
			return ires.Error
		}
		if ires.RowsAffected == 0 {
			// same provider refund id delivered twice; load what we stored
			return tx.First(&ref, "refund_provider_refund_id = ?", res.ID).Error
		}
		if res.Status == gateway.RefundProcessed {
			now := time.Now()
			return tx.Model(&model.Transaction{}).
				Where("transaction_id = ?", tr.TransactionID).
				Updates(map[string]any{
					"transaction_status":      model.TransactionStatusRefunded,
					"transaction_refunded_at": now,
				}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Status == gateway.RefundProcessed {
		tr.TransactionStatus = model.TransactionStatusRefunded
	}
	return &ref, nil
}

// ListTransactions serves the admin reporting view.
type ListTransactionsFilter struct {
	Provider string
	Status   string
	SchoolID *uuid.UUID
	UserID   *uuid.UUID
	Limit    int
	Offset   int
}

func (s *LedgerService) ListTransactions(ctx context.Context, f ListTransactionsFilter) ([]model.Transaction, int64, error) {
	db := dbFrom(ctx, s.DB).WithContext(ctx).
		Model(&model.Transaction{}).
		Where("transaction_deleted_at IS NULL")

	switch f.Provider {
	case model.TransactionProviderMidtrans:
		db = db.Where("transaction_midtrans_order_id IS NOT NULL")
	case model.TransactionProviderStripe:
		db = db.Where("transaction_stripe_payment_intent_id IS NOT NULL")
	}
	if f.Status != "" {
		db = db.Where("transaction_status = ?", f.Status)
	}
	if f.SchoolID != nil {
		db = db.Where("transaction_school_id = ?", *f.SchoolID)
	}
	if f.UserID != nil {
		db = db.Where("transaction_user_id = ?", *f.UserID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Transaction
	if err := db.Order("transaction_created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
