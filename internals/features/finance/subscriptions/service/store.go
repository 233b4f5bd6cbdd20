package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/model"
)

var ErrNotFound = errors.New("subscription not found")

// Store is the persistence slice the lifecycle service needs; kept small so
// tests swap in an in-memory map.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Subscription, error)
	GetByProviderSubscriptionID(ctx context.Context, providerSubID string) (*model.Subscription, error)
	Save(ctx context.Context, sub *model.Subscription) error
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	err := s.DB.WithContext(ctx).
		First(&sub, "subscription_id = ? AND subscription_deleted_at IS NULL", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) GetByProviderSubscriptionID(ctx context.Context, providerSubID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := s.DB.WithContext(ctx).
		First(&sub, "subscription_provider_subscription_id = ? AND subscription_deleted_at IS NULL", providerSubID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) Save(ctx context.Context, sub *model.Subscription) error {
	return s.DB.WithContext(ctx).Save(sub).Error
}
