package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type School struct {
	SchoolID uuid.UUID `gorm:"column:school_id;type:uuid;default:gen_random_uuid();primaryKey" json:"school_id"`

	SchoolOwnerUserID uuid.UUID `gorm:"column:school_owner_user_id;type:uuid;not null;index" json:"school_owner_user_id"`

	SchoolName string `gorm:"column:school_name;not null" json:"school_name"`

	CreatedAt time.Time      `gorm:"column:school_created_at;autoCreateTime" json:"school_created_at"`
	UpdatedAt time.Time      `gorm:"column:school_updated_at;autoUpdateTime" json:"school_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:school_deleted_at;index" json:"school_deleted_at,omitempty"`
}

func (School) TableName() string { return "schools" }
