package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/model"
)

var ErrForbidden = errors.New("not allowed to manage this subscription")

// SchoolOwnerLookup resolves the owning user of a school so school-scoped
// subscriptions can be managed by the owner as well as the subscriber.
type SchoolOwnerLookup interface {
	LookupOwner(ctx context.Context, schoolID uuid.UUID) (uuid.UUID, error)
}

type SubscriptionService struct {
	Store  Store
	Owners SchoolOwnerLookup
	// Billing handles remote cancellation; nil means every subscription is
	// local-only.
	Billing gateway.SubscriptionGateway
}

func NewSubscriptionService(store Store, owners SchoolOwnerLookup, billing gateway.SubscriptionGateway) *SubscriptionService {
	return &SubscriptionService{Store: store, Owners: owners, Billing: billing}
}

func (s *SubscriptionService) Get(ctx context.Context, id, actorID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, sub, actorID); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel flags the subscription to end at the period boundary. Billing stays
// active until then; the local row only records the intent. Calling it again
// is a no-op, so the remote gateway is told at most once.
func (s *SubscriptionService) Cancel(ctx context.Context, id, actorID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, sub, actorID); err != nil {
		return nil, err
	}
	if sub.SubscriptionCancelAtPeriodEnd || sub.IsTerminal() {
		return sub, nil
	}

	if s.Billing != nil && sub.SubscriptionProviderSubscriptionID != nil {
		if err := s.Billing.CancelAtPeriodEnd(ctx, *sub.SubscriptionProviderSubscriptionID); err != nil {
			return nil, err
		}
	}

	sub.SubscriptionCancelAtPeriodEnd = true
	if err := s.Store.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

type UpdateParams struct {
	PlanType         *string
	Amount           *int64
	CurrentPeriodEnd *time.Time
}

// Update mutates plan details on the local row only. Remote billing terms
// are reconciled by the gateway's own webhooks, never pushed from here.
func (s *SubscriptionService) Update(ctx context.Context, id, actorID uuid.UUID, p UpdateParams) (*model.Subscription, error) {
	sub, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, sub, actorID); err != nil {
		return nil, err
	}

	if p.PlanType != nil {
		sub.SubscriptionPlanType = *p.PlanType
	}
	if p.Amount != nil {
		sub.SubscriptionAmount = *p.Amount
	}
	if p.CurrentPeriodEnd != nil {
		sub.SubscriptionCurrentPeriodEnd = p.CurrentPeriodEnd
	}
	if err := s.Store.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) authorize(ctx context.Context, sub *model.Subscription, actorID uuid.UUID) error {
	if sub.SubscriptionUserID == actorID {
		return nil
	}
	if sub.SubscriptionSchoolID != nil && s.Owners != nil {
		owner, err := s.Owners.LookupOwner(ctx, *sub.SubscriptionSchoolID)
		if err == nil && owner == actorID {
			return nil
		}
	}
	return ErrForbidden
}

/* =========================================================
   Gateway-driven lifecycle
========================================================= */

// ApplyGatewayEvent moves a subscription per a verified billing event.
// Returns false when the event does not concern a subscription we track.
func (s *SubscriptionService) ApplyGatewayEvent(ctx context.Context, ev *gateway.WebhookEvent) (bool, error) {
	providerSubID := providerSubscriptionID(ev)
	if providerSubID == "" {
		return false, nil
	}

	sub, err := s.Store.GetByProviderSubscriptionID(ctx, providerSubID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	next, changed := nextStatus(sub, ev.Type)
	if !changed {
		return true, nil
	}

	sub.SubscriptionStatus = next
	if next == model.SubscriptionStatusCancelled {
		now := time.Now()
		sub.SubscriptionCancelledAt = &now
	}
	if err := s.Store.Save(ctx, sub); err != nil {
		return false, err
	}
	return true, nil
}

// nextStatus encodes the lifecycle transitions:
//
//	active|trialing --payment failed--> past_due --payment failed--> unpaid
//	past_due|unpaid --payment ok-->     active
//	any (flagged)   --period end-->     cancelled
func nextStatus(sub *model.Subscription, eventType string) (string, bool) {
	cur := sub.SubscriptionStatus
	if sub.IsTerminal() {
		return cur, false
	}

	switch {
	case eventType == "customer.subscription.deleted":
		return model.SubscriptionStatusCancelled, true

	case eventType == "invoice.payment_failed":
		switch cur {
		case model.SubscriptionStatusActive, model.SubscriptionStatusTrialing:
			return model.SubscriptionStatusPastDue, true
		case model.SubscriptionStatusPastDue:
			return model.SubscriptionStatusUnpaid, true
		}
		return cur, false

	case eventType == "invoice.paid" || eventType == "invoice.payment_succeeded":
		if cur == model.SubscriptionStatusPastDue || cur == model.SubscriptionStatusUnpaid {
			return model.SubscriptionStatusActive, true
		}
		return cur, false

	case strings.HasPrefix(eventType, "customer.subscription."):
		// updated/resumed carry no transition we act on here
		return cur, false
	}
	return cur, false
}

func providerSubscriptionID(ev *gateway.WebhookEvent) string {
	if ev.Data == nil {
		return ""
	}
	if strings.HasPrefix(ev.Type, "customer.subscription.") {
		id, _ := ev.Data["id"].(string)
		return id
	}
	if strings.HasPrefix(ev.Type, "invoice.") {
		if id, ok := ev.Data["subscription"].(string); ok {
			return id
		}
	}
	return ""
}
