package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/schools/model"
)

var ErrSchoolNotFound = errors.New("school not found")

type SchoolService struct {
	DB *gorm.DB
}

func NewSchoolService(db *gorm.DB) *SchoolService {
	return &SchoolService{DB: db}
}

// LookupOwner resolves the owning user of a school. Used by the
// subscription lifecycle to authorize school-scoped operations.
func (s *SchoolService) LookupOwner(ctx context.Context, schoolID uuid.UUID) (uuid.UUID, error) {
	var school model.School
	err := s.DB.WithContext(ctx).
		Select("school_owner_user_id").
		First(&school, "school_id = ? AND school_deleted_at IS NULL", schoolID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrSchoolNotFound
		}
		return uuid.Nil, err
	}
	return school.SchoolOwnerUserID, nil
}
