// file: internals/features/finance/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/model"
)

/* ===================== Requests ===================== */

type CustomerDetailsRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

type CreatePaymentRequest struct {
	Provider        string                  `json:"provider" validate:"required,oneof=midtrans stripe"`
	Amount          int64                   `json:"amount" validate:"required,gt=0"`
	Currency        string                  `json:"currency" validate:"required,len=3"`
	CustomerID      string                  `json:"customer_id" validate:"omitempty,max=128"`
	Description     string                  `json:"description" validate:"omitempty,max=255"`
	PaymentMethodID string                  `json:"payment_method_id" validate:"omitempty,max=128"`
	Customer        *CustomerDetailsRequest `json:"customer" validate:"omitempty"`
	Metadata        map[string]any          `json:"metadata" validate:"omitempty"`
	SchoolID        *uuid.UUID              `json:"school_id" validate:"omitempty"`
	SubscriptionID  *uuid.UUID              `json:"subscription_id" validate:"omitempty"`
}

type RefundRequest struct {
	Provider string `json:"provider" validate:"required,oneof=midtrans stripe"`
	// Amount in minor units; omitted means full refund.
	Amount *int64 `json:"amount" validate:"omitempty,gt=0"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type CreateCustomerRequest struct {
	Provider string            `json:"provider" validate:"required,oneof=midtrans stripe"`
	Email    string            `json:"email" validate:"required,email"`
	Name     string            `json:"name" validate:"required,max=150"`
	Phone    string            `json:"phone" validate:"omitempty,max=32"`
	Metadata map[string]string `json:"metadata" validate:"omitempty"`
}

type ListTransactionsQuery struct {
	Provider string `query:"provider" validate:"omitempty,oneof=midtrans stripe"`
	Status   string `query:"status" validate:"omitempty,oneof=pending paid failed refunded"`
	SchoolID string `query:"school_id" validate:"omitempty,uuid"`
	UserID   string `query:"user_id" validate:"omitempty,uuid"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

/* ===================== Responses ===================== */

type TransactionResponse struct {
	TransactionID  uuid.UUID      `json:"transaction_id"`
	Provider       string         `json:"provider"`
	ProviderID     string         `json:"provider_payment_id"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	Status         string         `json:"status"`
	Description    *string        `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	UserID         *uuid.UUID     `json:"user_id,omitempty"`
	SchoolID       *uuid.UUID     `json:"school_id,omitempty"`
	SubscriptionID *uuid.UUID     `json:"subscription_id,omitempty"`
	PaidAt         *time.Time     `json:"paid_at,omitempty"`
	FailedAt       *time.Time     `json:"failed_at,omitempty"`
	RefundedAt     *time.Time     `json:"refunded_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func ToTransactionResponse(t *model.Transaction) TransactionResponse {
	provider, providerID := t.ProviderPaymentID()
	return TransactionResponse{
		TransactionID:  t.TransactionID,
		Provider:       provider,
		ProviderID:     providerID,
		Amount:         t.TransactionAmount,
		Currency:       t.TransactionCurrency,
		Status:         t.TransactionStatus,
		Description:    t.TransactionDescription,
		Metadata:       t.TransactionMetadata,
		UserID:         t.TransactionUserID,
		SchoolID:       t.TransactionSchoolID,
		SubscriptionID: t.TransactionSubscriptionID,
		PaidAt:         t.TransactionPaidAt,
		FailedAt:       t.TransactionFailedAt,
		RefundedAt:     t.TransactionRefundedAt,
		CreatedAt:      t.CreatedAt,
	}
}

func ToTransactionResponses(ts []model.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for i := range ts {
		out = append(out, ToTransactionResponse(&ts[i]))
	}
	return out
}

type CreatePaymentResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	CheckoutURL string              `json:"checkout_url,omitempty"`
	ClientToken string              `json:"client_token,omitempty"`
}

type RefundResponse struct {
	RefundID         uuid.UUID  `json:"refund_id"`
	TransactionID    *uuid.UUID `json:"transaction_id,omitempty"`
	ProviderRefundID *string    `json:"provider_refund_id,omitempty"`
	Amount           int64      `json:"amount"`
	Status           string     `json:"status"`
	Reason           *string    `json:"reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func ToRefundResponse(r *model.Refund) RefundResponse {
	return RefundResponse{
		RefundID:         r.RefundID,
		TransactionID:    r.RefundTransactionID,
		ProviderRefundID: r.RefundProviderRefundID,
		Amount:           r.RefundAmount,
		Status:           r.RefundStatus,
		Reason:           r.RefundReason,
		CreatedAt:        r.CreatedAt,
	}
}

type CustomerResponse struct {
	CustomerID string            `json:"customer_id"`
	Provider   string            `json:"provider"`
	Email      string            `json:"email,omitempty"`
	Name       string            `json:"name,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func ToCustomerResponse(c *gateway.PaymentCustomer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.ID,
		Provider:   string(c.Provider),
		Email:      c.Email,
		Name:       c.Name,
		Phone:      c.Phone,
		Metadata:   c.Metadata,
	}
}
