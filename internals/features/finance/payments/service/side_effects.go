package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	leadservice "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/admissions/leads/service"
	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/model"
)

const (
	leadStatusRegistered = "registered"
	leadPaymentPaid      = "paid"
	leadScoreRegistered  = 300

	enrollmentStatusActive = "active"
)

// LeadStateWriter is the slice of the admissions service the dispatcher
// needs; the concrete LeadService satisfies it.
type LeadStateWriter interface {
	UpdateLeadState(ctx context.Context, db *gorm.DB, leadID uuid.UUID, status, paymentStatus string, score int) error
	CreateEnrollment(ctx context.Context, db *gorm.DB, leadID uuid.UUID, schoolID *uuid.UUID, program, status string, startDate time.Time) (uuid.UUID, error)
}

var _ LeadStateWriter = (*leadservice.LeadService)(nil)

// SideEffectInput is extracted from a paid transaction's metadata.
type SideEffectInput struct {
	ProviderPaymentID string
	LeadID            uuid.UUID
	SchoolID          *uuid.UUID
	Program           string
}

// SideEffectFromMetadata decides whether a paid transaction requests the
// immediate-enrollment effect. Returns (nil, false) when the metadata does
// not carry an enrollment intent; malformed ids are treated the same way
// rather than failing the payment.
func SideEffectFromMetadata(providerPaymentID string, meta datatypes.JSONMap) (*SideEffectInput, bool) {
	if meta == nil {
		return nil, false
	}
	intent, _ := meta["intent"].(string)
	if intent != SideEffectIntentEnroll {
		return nil, false
	}
	rawLead, _ := meta["lead_id"].(string)
	leadID, err := uuid.Parse(rawLead)
	if err != nil {
		return nil, false
	}

	in := SideEffectInput{
		ProviderPaymentID: providerPaymentID,
		LeadID:            leadID,
	}
	if rawSchool, _ := meta["school_id"].(string); rawSchool != "" {
		if sid, err := uuid.Parse(rawSchool); err == nil {
			in.SchoolID = &sid
		}
	}
	in.Program, _ = meta["program"].(string)
	return &in, true
}

// SideEffectIntentEnroll marks a payment whose settlement should register
// the lead and open an enrollment.
const SideEffectIntentEnroll = "immediate_enrollment"

// SideEffectDispatcher applies business-state transitions for settled
// payments exactly once per (payment id, effect type).
type SideEffectDispatcher struct {
	DB    *gorm.DB
	Leads LeadStateWriter
}

func NewSideEffectDispatcher(db *gorm.DB, leads LeadStateWriter) *SideEffectDispatcher {
	return &SideEffectDispatcher{DB: db, Leads: leads}
}

// Apply claims the idempotency key and, on first claim, performs the lead
// update and enrollment creation in the same database transaction as the
// claim. A duplicate claim replays the stored result without touching
// admissions data again.
func (d *SideEffectDispatcher) Apply(ctx context.Context, in SideEffectInput) (datatypes.JSONMap, bool, error) {
	var result datatypes.JSONMap
	applied := false

	db := dbFrom(ctx, d.DB)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := model.PaymentSideEffect{
			SideEffectProviderPaymentID: in.ProviderPaymentID,
			SideEffectType:              model.SideEffectTypeImmediateEnrollment,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&claim)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var prev model.PaymentSideEffect
			if err := tx.First(&prev,
				"side_effect_provider_payment_id = ? AND side_effect_type = ?",
				in.ProviderPaymentID, model.SideEffectTypeImmediateEnrollment,
			).Error; err != nil {
				return err
			}
			result = prev.SideEffectResult
			return nil
		}

		if err := d.Leads.UpdateLeadState(ctx, tx, in.LeadID, leadStatusRegistered, leadPaymentPaid, leadScoreRegistered); err != nil {
			return err
		}
		enrollmentID, err := d.Leads.CreateEnrollment(ctx, tx, in.LeadID, in.SchoolID, in.Program, enrollmentStatusActive, time.Now())
		if err != nil {
			return err
		}

		result = datatypes.JSONMap{
			"lead_id":       in.LeadID.String(),
			"enrollment_id": enrollmentID.String(),
		}
		applied = true
		return tx.Model(&model.PaymentSideEffect{}).
			Where("side_effect_id = ?", claim.SideEffectID).
			Update("side_effect_result", result).Error
	})
	if err != nil {
		return nil, false, err
	}
	return result, applied, nil
}
