package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/admissions/leads/model"
)

// LeadService exposes the two state mutations the payment pipeline is
// allowed to perform on admissions data. Both take the caller's *gorm.DB
// so they join whatever transaction the caller already holds.
type LeadService struct{}

func NewLeadService() *LeadService { return &LeadService{} }

func (s *LeadService) UpdateLeadState(ctx context.Context, db *gorm.DB, leadID uuid.UUID, status, paymentStatus string, score int) error {
	res := db.WithContext(ctx).
		Model(&model.Lead{}).
		Where("lead_id = ? AND lead_deleted_at IS NULL", leadID).
		Updates(map[string]any{
			"lead_status":         status,
			"lead_payment_status": paymentStatus,
			"lead_score":          score,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("lead %s: %w", leadID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *LeadService) CreateEnrollment(ctx context.Context, db *gorm.DB, leadID uuid.UUID, schoolID *uuid.UUID, program, status string, startDate time.Time) (uuid.UUID, error) {
	enr := model.Enrollment{
		EnrollmentLeadID:    leadID,
		EnrollmentSchoolID:  schoolID,
		EnrollmentProgram:   program,
		EnrollmentStatus:    status,
		EnrollmentStartDate: startDate,
	}
	if err := db.WithContext(ctx).Create(&enr).Error; err != nil {
		return uuid.Nil, err
	}
	return enr.EnrollmentID, nil
}
