package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/model"
)

/* =========================================================
   Collaborator contracts — narrow slices of the concrete
   services so the orchestrator is testable without a DB.
========================================================= */

type Ledger interface {
	RecordAttempt(ctx context.Context, in RecordAttemptInput) (*model.Transaction, bool, error)
	FindByProviderPaymentID(ctx context.Context, provider gateway.Provider, id string) (*model.Transaction, error)
	ApplyGatewayStatus(ctx context.Context, tr *model.Transaction, status string) error
	RecordRefund(ctx context.Context, tr *model.Transaction, res *gateway.RefundResult, reason string, requestedBy *uuid.UUID) (*model.Refund, error)
}

type EffectApplier interface {
	Apply(ctx context.Context, in SideEffectInput) (datatypes.JSONMap, bool, error)
}

type EventLog interface {
	Record(ctx context.Context, ev *gateway.WebhookEvent, payload []byte) (*model.PaymentWebhookEvent, error)
	MarkOutcome(ctx context.Context, row *model.PaymentWebhookEvent, status string, procErr error) error
}

// SubscriptionReconciler receives verified subscription lifecycle events.
type SubscriptionReconciler interface {
	ApplyGatewayEvent(ctx context.Context, ev *gateway.WebhookEvent) (bool, error)
}

var _ Ledger = (*LedgerService)(nil)
var _ EffectApplier = (*SideEffectDispatcher)(nil)
var _ EventLog = (*WebhookEventLog)(nil)

/* =========================================================
   Orchestrator
========================================================= */

type PaymentService struct {
	Gateways      *gateway.Registry
	Ledger        Ledger
	Effects       EffectApplier
	Events        EventLog
	Tx            TxRunner
	Subscriptions SubscriptionReconciler // optional

	// GatewayTimeout bounds each outbound provider call; zero disables it.
	GatewayTimeout time.Duration
}

// gatewayCtx derives the bounded context for one external call.
func (s *PaymentService) gatewayCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.GatewayTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.GatewayTimeout)
}

func NewPaymentService(gws *gateway.Registry, ledger Ledger, effects EffectApplier, events EventLog, tx TxRunner) *PaymentService {
	return &PaymentService{
		Gateways: gws,
		Ledger:   ledger,
		Effects:  effects,
		Events:   events,
		Tx:       tx,
	}
}

type CreatePaymentParams struct {
	Provider        gateway.Provider
	Amount          int64
	Currency        string
	CustomerID      string
	Description     string
	PaymentMethodID string
	Customer        *gateway.CustomerDetails
	Metadata        map[string]any
	UserID          *uuid.UUID
	SchoolID        *uuid.UUID
	SubscriptionID  *uuid.UUID
}

type CreatePaymentResult struct {
	Transaction *model.Transaction
	Intent      *gateway.PaymentIntent
	// EffectResult is set when the payment settled synchronously and the
	// immediate-enrollment effect ran (or was replayed).
	EffectResult datatypes.JSONMap
}

// CreatePayment drives one charge attempt end to end. The ledger row is
// written only after the gateway call resolves — success or failure — so
// every stored row reflects an attempt the gateway actually saw.
func (s *PaymentService) CreatePayment(ctx context.Context, p CreatePaymentParams) (*CreatePaymentResult, error) {
	gw, err := s.Gateways.Resolve(p.Provider)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := s.gatewayCtx(ctx)
	defer cancel()
	intent, gwErr := gw.CreatePayment(callCtx, gateway.CreatePaymentInput{
		Amount:          p.Amount,
		Currency:        p.Currency,
		CustomerID:      p.CustomerID,
		Description:     p.Description,
		PaymentMethodID: p.PaymentMethodID,
		Customer:        p.Customer,
		Metadata:        p.Metadata,
	})
	if gwErr != nil && intent == nil {
		// the gateway gave us no payment identity; mint a local one so the
		// failed attempt still lands in the ledger
		intent = &gateway.PaymentIntent{
			ID:       "attempt-" + uuid.NewString(),
			Provider: p.Provider,
			Status:   gateway.StatusFailed,
			Amount:   p.Amount,
			Currency: p.Currency,
		}
	}

	res := &CreatePaymentResult{Intent: intent}
	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		tr, _, err := s.Ledger.RecordAttempt(txCtx, RecordAttemptInput{
			Provider:          p.Provider,
			ProviderPaymentID: intent.ID,
			Amount:            p.Amount,
			Currency:          p.Currency,
			Status:            string(intent.Status),
			PaymentType:       p.Description,
			Description:       p.Description,
			Metadata:          p.Metadata,
			UserID:            p.UserID,
			SchoolID:          p.SchoolID,
			SubscriptionID:    p.SubscriptionID,
		})
		if err != nil {
			return err
		}
		res.Transaction = tr

		if intent.Status == gateway.StatusPaid {
			if in, ok := SideEffectFromMetadata(intent.ID, tr.TransactionMetadata); ok {
				effRes, _, err := s.Effects.Apply(txCtx, *in)
				if err != nil {
					return err
				}
				res.EffectResult = effRes
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if gwErr != nil {
		return res, gwErr
	}
	return res, nil
}

// GetPayment fetches the gateway's current view and reconciles the ledger
// row with it, applying side effects if the fetch reveals a settlement the
// webhook has not delivered yet.
func (s *PaymentService) GetPayment(ctx context.Context, provider gateway.Provider, id string) (*model.Transaction, *gateway.PaymentIntent, error) {
	gw, err := s.Gateways.Resolve(provider)
	if err != nil {
		return nil, nil, err
	}
	callCtx, cancel := s.gatewayCtx(ctx)
	defer cancel()
	intent, err := gw.GetPayment(callCtx, id)
	if err != nil {
		return nil, nil, err
	}

	var tr *model.Transaction
	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		tr, err = s.Ledger.FindByProviderPaymentID(txCtx, provider, id)
		if err != nil {
			return err
		}
		wasPaid := tr.TransactionStatus == model.TransactionStatusPaid
		if err := s.Ledger.ApplyGatewayStatus(txCtx, tr, string(intent.Status)); err != nil {
			return err
		}
		if !wasPaid && tr.TransactionStatus == model.TransactionStatusPaid {
			if in, ok := SideEffectFromMetadata(id, tr.TransactionMetadata); ok {
				if _, _, err := s.Effects.Apply(txCtx, *in); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return tr, intent, nil
}

type RefundParams struct {
	Provider          gateway.Provider
	ProviderPaymentID string
	Amount            *int64 // nil = full refund
	Reason            string
	RequestedBy       *uuid.UUID
}

// RefundPayment validates against the ledger, asks the gateway, and only
// marks the row REFUNDED once the gateway confirmed.
func (s *PaymentService) RefundPayment(ctx context.Context, p RefundParams) (*model.Refund, error) {
	gw, err := s.Gateways.Resolve(p.Provider)
	if err != nil {
		return nil, err
	}

	tr, err := s.Ledger.FindByProviderPaymentID(ctx, p.Provider, p.ProviderPaymentID)
	if err != nil {
		return nil, err
	}
	if tr.TransactionStatus != model.TransactionStatusPaid && tr.TransactionStatus != model.TransactionStatusRefunded {
		return nil, ErrTransactionNotRefundable
	}
	if p.Amount != nil && *p.Amount > tr.TransactionAmount {
		return nil, ErrRefundExceedsAmount
	}

	callCtx, cancel := s.gatewayCtx(ctx)
	defer cancel()
	res, err := gw.RefundPayment(callCtx, p.ProviderPaymentID, p.Amount, p.Reason)
	if err != nil {
		return nil, err
	}
	return s.Ledger.RecordRefund(ctx, tr, res, p.Reason, p.RequestedBy)
}

var ErrTransactionNotRefundable = errors.New("transaction is not in a refundable state")

func (s *PaymentService) CreateCustomer(ctx context.Context, provider gateway.Provider, in gateway.CreateCustomerInput) (*gateway.PaymentCustomer, error) {
	gw, err := s.Gateways.Resolve(provider)
	if err != nil {
		return nil, err
	}
	callCtx, cancel := s.gatewayCtx(ctx)
	defer cancel()
	return gw.CreateCustomer(callCtx, in)
}

func (s *PaymentService) GetCustomer(ctx context.Context, provider gateway.Provider, id string) (*gateway.PaymentCustomer, error) {
	gw, err := s.Gateways.Resolve(provider)
	if err != nil {
		return nil, err
	}
	callCtx, cancel := s.gatewayCtx(ctx)
	defer cancel()
	return gw.GetCustomer(callCtx, id)
}

/* =========================================================
   Webhook path
========================================================= */

const (
	WebhookProcessed = "processed"
	WebhookDuplicate = "duplicate"
	WebhookIgnored   = "ignored"
)

type WebhookOutcome struct {
	Disposition string
	Transaction *model.Transaction
}

// HandleWebhook verifies, logs, and applies one gateway callback. Only a
// verification failure is an error the controller turns into 400; every
// other path (duplicate, unknown payment id, irrelevant event type)
// resolves to a 200-able outcome so the gateway stops retrying.
func (s *PaymentService) HandleWebhook(ctx context.Context, provider gateway.Provider, payload []byte, signature string) (*WebhookOutcome, error) {
	gw, err := s.Gateways.Resolve(provider)
	if err != nil {
		return nil, err
	}
	ev, err := gw.VerifyWebhook(payload, signature)
	if err != nil {
		return nil, err
	}

	logRow, logErr := s.Events.Record(ctx, ev, payload)
	_ = logErr // audit logging must not block processing

	outcome, procErr := s.applyEvent(ctx, ev)
	if procErr != nil {
		_ = s.Events.MarkOutcome(ctx, logRow, model.WebhookEventStatusFailed, procErr)
		return nil, procErr
	}

	status := model.WebhookEventStatusProcessed
	if outcome.Disposition == WebhookIgnored {
		status = model.WebhookEventStatusIgnored
	}
	_ = s.Events.MarkOutcome(ctx, logRow, status, nil)
	return outcome, nil
}

func (s *PaymentService) applyEvent(ctx context.Context, ev *gateway.WebhookEvent) (*WebhookOutcome, error) {
	// subscription lifecycle events take a separate path
	if s.Subscriptions != nil && ev.ProviderPaymentID == "" {
		handled, err := s.Subscriptions.ApplyGatewayEvent(ctx, ev)
		if err != nil {
			return nil, err
		}
		if handled {
			return &WebhookOutcome{Disposition: WebhookProcessed}, nil
		}
	}
	if ev.ProviderPaymentID == "" || ev.Status == "" {
		return &WebhookOutcome{Disposition: WebhookIgnored}, nil
	}

	outcome := &WebhookOutcome{Disposition: WebhookIgnored}
	err := s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		tr, err := s.Ledger.FindByProviderPaymentID(txCtx, ev.Provider, ev.ProviderPaymentID)
		if err != nil {
			if errors.Is(err, ErrTransactionNotFound) {
				// no matching attempt; acknowledged but not applied
				return nil
			}
			return err
		}
		outcome.Transaction = tr

		next := CanonicalStatus(string(ev.Status))
		if tr.TransactionStatus == next {
			outcome.Disposition = WebhookDuplicate
		} else if tr.IsSettled() && next != model.TransactionStatusRefunded {
			// late or out-of-order report against a settled row
			outcome.Disposition = WebhookDuplicate
			return nil
		} else {
			outcome.Disposition = WebhookProcessed
		}

		if err := s.Ledger.ApplyGatewayStatus(txCtx, tr, string(ev.Status)); err != nil {
			return err
		}

		if tr.TransactionStatus == model.TransactionStatusPaid {
			if in, ok := SideEffectFromMetadata(ev.ProviderPaymentID, tr.TransactionMetadata); ok {
				// replayed claims return the stored result; never re-applied
				if _, _, err := s.Effects.Apply(txCtx, *in); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
