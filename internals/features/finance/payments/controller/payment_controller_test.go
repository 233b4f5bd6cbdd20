package controller

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/dto"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	model "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/model"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/service"
	helper "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/helpers"
)

/* ===================== stubs ===================== */

type ctxCapturingGateway struct {
	intent      *gateway.PaymentIntent
	capturedCtx context.Context
}

func (g *ctxCapturingGateway) Provider() gateway.Provider { return gateway.ProviderStripe }

func (g *ctxCapturingGateway) CreatePayment(ctx context.Context, in gateway.CreatePaymentInput) (*gateway.PaymentIntent, error) {
	g.capturedCtx = ctx
	return g.intent, nil
}

func (g *ctxCapturingGateway) GetPayment(ctx context.Context, id string) (*gateway.PaymentIntent, error) {
	g.capturedCtx = ctx
	return g.intent, nil
}

func (g *ctxCapturingGateway) CreateCustomer(ctx context.Context, in gateway.CreateCustomerInput) (*gateway.PaymentCustomer, error) {
	g.capturedCtx = ctx
	return &gateway.PaymentCustomer{ID: "cus_1", Provider: gateway.ProviderStripe}, nil
}

func (g *ctxCapturingGateway) GetCustomer(ctx context.Context, id string) (*gateway.PaymentCustomer, error) {
	g.capturedCtx = ctx
	return &gateway.PaymentCustomer{ID: id, Provider: gateway.ProviderStripe}, nil
}

func (g *ctxCapturingGateway) RefundPayment(ctx context.Context, paymentID string, amount *int64, reason string) (*gateway.RefundResult, error) {
	g.capturedCtx = ctx
	return &gateway.RefundResult{ID: "re_1", Provider: gateway.ProviderStripe, PaymentID: paymentID, Status: gateway.RefundProcessed}, nil
}

func (g *ctxCapturingGateway) VerifyWebhook(payload []byte, signature string) (*gateway.WebhookEvent, error) {
	return &gateway.WebhookEvent{Provider: gateway.ProviderStripe}, nil
}

type stubLedger struct {
	tr *model.Transaction
}

func (l *stubLedger) RecordAttempt(ctx context.Context, in service.RecordAttemptInput) (*model.Transaction, bool, error) {
	return l.tr, true, nil
}

func (l *stubLedger) FindByProviderPaymentID(ctx context.Context, provider gateway.Provider, id string) (*model.Transaction, error) {
	return l.tr, nil
}

func (l *stubLedger) ApplyGatewayStatus(ctx context.Context, tr *model.Transaction, status string) error {
	return nil
}

func (l *stubLedger) RecordRefund(ctx context.Context, tr *model.Transaction, res *gateway.RefundResult, reason string, requestedBy *uuid.UUID) (*model.Refund, error) {
	return &model.Refund{RefundID: uuid.New()}, nil
}

type stubEffects struct{}

func (stubEffects) Apply(ctx context.Context, in service.SideEffectInput) (datatypes.JSONMap, bool, error) {
	return nil, false, nil
}

type stubEvents struct{}

func (stubEvents) Record(ctx context.Context, ev *gateway.WebhookEvent, payload []byte) (*model.PaymentWebhookEvent, error) {
	return &model.PaymentWebhookEvent{}, nil
}

func (stubEvents) MarkOutcome(ctx context.Context, row *model.PaymentWebhookEvent, status string, procErr error) error {
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

/* ===================== tests ===================== */

// The request-scoped deadline set by the timeout middleware must travel
// through the controller into the gateway call.
func TestGetPaymentPropagatesRequestDeadline(t *testing.T) {
	tr := &model.Transaction{
		TransactionID:       uuid.New(),
		TransactionAmount:   5000,
		TransactionCurrency: "USD",
		TransactionStatus:   model.TransactionStatusPaid,
	}
	require.NoError(t, tr.SetProviderPaymentID("stripe", "pi_ctx"))

	gw := &ctxCapturingGateway{intent: &gateway.PaymentIntent{
		ID:           "pi_ctx",
		Provider:     gateway.ProviderStripe,
		Status:       gateway.StatusPaid,
		NativeStatus: "succeeded",
		Amount:       5000,
		Currency:     "USD",
	}}
	svc := service.NewPaymentService(gateway.NewRegistry(gw), &stubLedger{tr: tr}, stubEffects{}, stubEvents{}, passthroughTx{})
	ctl := NewPaymentController(svc, nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Get("/api/payments/:provider/:id", ctl.GetPayment)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/payments/stripe/pi_ctx", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, gw.capturedCtx)
	_, hasDeadline := gw.capturedCtx.Deadline()
	assert.True(t, hasDeadline, "gateway call must inherit the request deadline")
}

func TestListTransactionsFilter(t *testing.T) {
	paging := helper.Paging{Page: 3, PerPage: 20, Offset: 40, Limit: 20}
	schoolID := uuid.New()
	userID := uuid.New()

	t.Run("all filters", func(t *testing.T) {
		f, err := listTransactionsFilter(dto.ListTransactionsQuery{
			Provider: "stripe",
			Status:   "paid",
			SchoolID: schoolID.String(),
			UserID:   userID.String(),
		}, paging)
		require.NoError(t, err)
		assert.Equal(t, "stripe", f.Provider)
		assert.Equal(t, "paid", f.Status)
		require.NotNil(t, f.SchoolID)
		assert.Equal(t, schoolID, *f.SchoolID)
		require.NotNil(t, f.UserID)
		assert.Equal(t, userID, *f.UserID)
		assert.Equal(t, 20, f.Limit)
		assert.Equal(t, 40, f.Offset)
	})

	t.Run("empty ids stay nil", func(t *testing.T) {
		f, err := listTransactionsFilter(dto.ListTransactionsQuery{}, paging)
		require.NoError(t, err)
		assert.Nil(t, f.SchoolID)
		assert.Nil(t, f.UserID)
	})

	t.Run("invalid school id", func(t *testing.T) {
		_, err := listTransactionsFilter(dto.ListTransactionsQuery{SchoolID: "nope"}, paging)
		assert.EqualError(t, err, "invalid school_id")
	})

	t.Run("invalid user id", func(t *testing.T) {
		_, err := listTransactionsFilter(dto.ListTransactionsQuery{UserID: "nope"}, paging)
		assert.EqualError(t, err, "invalid user_id")
	})
}
