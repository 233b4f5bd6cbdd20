// file: internals/features/finance/subscriptions/dto/subscription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/model"
)

type UpdateSubscriptionRequest struct {
	PlanType         *string    `json:"plan_type" validate:"omitempty,max=64"`
	Amount           *int64     `json:"amount" validate:"omitempty,gte=0"`
	CurrentPeriodEnd *time.Time `json:"current_period_end" validate:"omitempty"`
}

type SubscriptionResponse struct {
	SubscriptionID         uuid.UUID  `json:"subscription_id"`
	UserID                 uuid.UUID  `json:"user_id"`
	SchoolID               *uuid.UUID `json:"school_id,omitempty"`
	ProviderSubscriptionID *string    `json:"provider_subscription_id,omitempty"`
	PlanType               string     `json:"plan_type"`
	Amount                 int64      `json:"amount"`
	Currency               string     `json:"currency"`
	Status                 string     `json:"status"`
	CancelAtPeriodEnd      bool       `json:"cancel_at_period_end"`
	CurrentPeriodStart     *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end,omitempty"`
	CancelledAt            *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

func ToSubscriptionResponse(s *model.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:         s.SubscriptionID,
		UserID:                 s.SubscriptionUserID,
		SchoolID:               s.SubscriptionSchoolID,
		ProviderSubscriptionID: s.SubscriptionProviderSubscriptionID,
		PlanType:               s.SubscriptionPlanType,
		Amount:                 s.SubscriptionAmount,
		Currency:               s.SubscriptionCurrency,
		Status:                 s.SubscriptionStatus,
		CancelAtPeriodEnd:      s.SubscriptionCancelAtPeriodEnd,
		CurrentPeriodStart:     s.SubscriptionCurrentPeriodStart,
		CurrentPeriodEnd:       s.SubscriptionCurrentPeriodEnd,
		CancelledAt:            s.SubscriptionCancelledAt,
		CreatedAt:              s.CreatedAt,
	}
}
