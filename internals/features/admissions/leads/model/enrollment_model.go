package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusWithdrawn = "withdrawn"
	EnrollmentStatusGraduated = "graduated"
)

type Enrollment struct {
	EnrollmentID uuid.UUID `gorm:"column:enrollment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"enrollment_id"`

	EnrollmentLeadID   uuid.UUID  `gorm:"column:enrollment_lead_id;type:uuid;not null;index" json:"enrollment_lead_id"`
	EnrollmentSchoolID *uuid.UUID `gorm:"column:enrollment_school_id;type:uuid;index" json:"enrollment_school_id,omitempty"`

	EnrollmentProgram string `gorm:"column:enrollment_program;type:varchar(64)" json:"enrollment_program"`
	EnrollmentStatus  string `gorm:"column:enrollment_status;type:varchar(32);not null;default:'active'" json:"enrollment_status"`

	EnrollmentStartDate time.Time `gorm:"column:enrollment_start_date;not null" json:"enrollment_start_date"`

	CreatedAt time.Time      `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
	UpdatedAt time.Time      `gorm:"column:enrollment_updated_at;autoUpdateTime" json:"enrollment_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:enrollment_deleted_at;index" json:"enrollment_deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollments" }
