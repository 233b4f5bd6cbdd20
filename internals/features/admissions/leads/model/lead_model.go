package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeadStatusNew        = "new"
	LeadStatusContacted  = "contacted"
	LeadStatusToured     = "toured"
	LeadStatusRegistered = "registered"
	LeadStatusLost       = "lost"
)

const (
	LeadPaymentStatusUnpaid = "unpaid"
	LeadPaymentStatusPaid   = "paid"
)

type Lead struct {
	LeadID uuid.UUID `gorm:"column:lead_id;type:uuid;default:gen_random_uuid();primaryKey" json:"lead_id"`

	LeadSchoolID *uuid.UUID `gorm:"column:lead_school_id;type:uuid;index" json:"lead_school_id,omitempty"`

	LeadParentName  string `gorm:"column:lead_parent_name" json:"lead_parent_name"`
	LeadChildName   string `gorm:"column:lead_child_name" json:"lead_child_name"`
	LeadParentEmail string `gorm:"column:lead_parent_email" json:"lead_parent_email"`
	LeadParentPhone string `gorm:"column:lead_parent_phone" json:"lead_parent_phone"`

	LeadStatus        string `gorm:"column:lead_status;type:varchar(32);not null;default:'new'" json:"lead_status"`
	LeadPaymentStatus string `gorm:"column:lead_payment_status;type:varchar(16);not null;default:'unpaid'" json:"lead_payment_status"`

	// Engagement score; a completed enrollment payment pins it to 300.
	LeadScore int `gorm:"column:lead_score;not null;default:0" json:"lead_score"`

	CreatedAt time.Time      `gorm:"column:lead_created_at;autoCreateTime" json:"lead_created_at"`
	UpdatedAt time.Time      `gorm:"column:lead_updated_at;autoUpdateTime" json:"lead_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:lead_deleted_at;index" json:"lead_deleted_at,omitempty"`
}

func (Lead) TableName() string { return "leads" }
