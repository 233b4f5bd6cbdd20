package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Midtrans adapter — tokenized/asynchronous flow.
   Payment creation returns a pending intent with a Snap
   checkout URL; the terminal state arrives via the HTTP
   notification callback.
========================================================= */

type MidtransConfig struct {
	ServerKey     string
	UseProduction bool
}

type MidtransGateway struct {
	snap      snap.Client
	core      coreapi.Client
	serverKey string
}

func NewMidtransGateway(cfg MidtransConfig) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.UseProduction {
		env = midtrans.Production
	}
	g := &MidtransGateway{serverKey: cfg.ServerKey}
	g.snap.New(cfg.ServerKey, env)
	g.core.New(cfg.ServerKey, env)
	return g
}

func (g *MidtransGateway) Provider() Provider { return ProviderMidtrans }

/* =========================================================
   Status mapping (native → canonical, fail-closed)
========================================================= */

var midtransStatusTable = map[string]PaymentStatus{
	"settlement":     StatusPaid,
	"capture":        StatusPaid,
	"pending":        StatusPending,
	"authorize":      StatusPending,
	"deny":           StatusFailed,
	"cancel":         StatusFailed,
	"expire":         StatusFailed,
	"failure":        StatusFailed,
	"refund":         StatusRefunded,
	"partial_refund": StatusRefunded,
}

// mapMidtransStatus folds fraud_status into the capture case: a captured
// card payment is only paid once fraud screening accepts it.
func mapMidtransStatus(native, fraud string) PaymentStatus {
	native = strings.ToLower(strings.TrimSpace(native))
	fraud = strings.ToLower(strings.TrimSpace(fraud))

	if native == "capture" {
		switch fraud {
		case "", "accept":
			return StatusPaid
		case "challenge":
			return StatusPending
		default:
			return StatusFailed
		}
	}
	if s, ok := midtransStatusTable[native]; ok {
		return s
	}
	return StatusFailed
}

/* =========================================================
   Operations
========================================================= */

func (g *MidtransGateway) CreatePayment(ctx context.Context, in CreatePaymentInput) (*PaymentIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// order_id is minted here and is the payment identity for the whole
	// lifetime of this attempt (webhooks report against it).
	orderID := "ord-" + uuid.NewString()

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = "IDR"
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: in.Amount,
		},
	}
	if in.Customer != nil {
		req.CustomerDetail = &midtrans.CustomerDetails{
			FName: in.Customer.FirstName,
			LName: in.Customer.LastName,
			Email: in.Customer.Email,
			Phone: in.Customer.Phone,
		}
	}
	name := in.Description
	if name == "" {
		name = "Tuition payment"
	}
	req.Items = &[]midtrans.ItemDetails{
		{
			ID:    orderID,
			Price: in.Amount,
			Qty:   1,
			Name:  truncate(name, 50),
		},
	}
	if len(in.Metadata) > 0 {
		req.Metadata = in.Metadata
	}

	resp, mErr := g.snap.CreateTransaction(req)
	if mErr != nil {
		return nil, NewGatewayError(ProviderMidtrans, mErr.Message, mErr)
	}

	return &PaymentIntent{
		ID:           orderID,
		Provider:     ProviderMidtrans,
		Status:       StatusPending,
		NativeStatus: "pending",
		Amount:       in.Amount,
		Currency:     currency,
		CustomerID:   in.CustomerID,
		CheckoutURL:  resp.RedirectURL,
		ClientToken:  resp.Token,
		CreatedAt:    time.Now(),
	}, nil
}

func (g *MidtransGateway) GetPayment(ctx context.Context, id string) (*PaymentIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, mErr := g.core.CheckTransaction(id)
	if mErr != nil {
		return nil, NewGatewayError(ProviderMidtrans, mErr.Message, mErr)
	}

	return &PaymentIntent{
		ID:           resp.OrderID,
		Provider:     ProviderMidtrans,
		Status:       mapMidtransStatus(resp.TransactionStatus, resp.FraudStatus),
		NativeStatus: resp.TransactionStatus,
		Amount:       parseGrossAmount(resp.GrossAmount),
		Currency:     "IDR",
	}, nil
}

// CreateCustomer synthesizes a local customer reference. Midtrans has no
// standalone customer resource; customer details travel with each
// transaction instead.
func (g *MidtransGateway) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*PaymentCustomer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &PaymentCustomer{
		ID:       "mcus-" + uuid.NewString(),
		Provider: ProviderMidtrans,
		Email:    in.Email,
		Name:     in.Name,
		Phone:    in.Phone,
		Metadata: in.Metadata,
	}, nil
}

func (g *MidtransGateway) GetCustomer(ctx context.Context, id string) (*PaymentCustomer, error) {
	return nil, NewGatewayError(ProviderMidtrans, "midtrans does not expose a customer resource", nil)
}

func (g *MidtransGateway) RefundPayment(ctx context.Context, paymentID string, amount *int64, reason string) (*RefundResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &coreapi.RefundReq{
		RefundKey: "rf-" + uuid.NewString(),
		Reason:    reason,
	}
	if amount != nil {
		req.Amount = *amount
	}

	resp, mErr := g.core.RefundTransaction(paymentID, req)
	if mErr != nil {
		return nil, NewGatewayError(ProviderMidtrans, mErr.Message, mErr)
	}

	refundID := resp.RefundChargebackUUID
	if refundID == "" {
		refundID = resp.RefundKey
	}
	refunded := parseGrossAmount(resp.RefundAmount)
	if refunded == 0 && amount != nil {
		refunded = *amount
	}

	return &RefundResult{
		ID:           refundID,
		Provider:     ProviderMidtrans,
		PaymentID:    paymentID,
		Amount:       refunded,
		Status:       RefundProcessed,
		NativeStatus: resp.TransactionStatus,
	}, nil
}

/* =========================================================
   Webhook verification
   signature_key = SHA512(order_id + status_code + gross_amount + server_key)
========================================================= */

type midtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

// VerifyWebhook checks the signature embedded in the notification body.
// The signature argument is unused for midtrans; it ships the key inside
// the payload.
func (g *MidtransGateway) VerifyWebhook(payload []byte, _ string) (*WebhookEvent, error) {
	var notif midtransNotification
	if err := json.Unmarshal(payload, &notif); err != nil {
		return nil, &WebhookVerificationError{Provider: ProviderMidtrans, Reason: "invalid JSON payload"}
	}

	want := strings.ToLower(strings.TrimSpace(notif.SignatureKey))
	got := sha512Hex(notif.OrderID + notif.StatusCode + notif.GrossAmount + g.serverKey)
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return nil, &WebhookVerificationError{Provider: ProviderMidtrans, Reason: "invalid signature_key"}
	}

	data := map[string]any{}
	_ = json.Unmarshal(payload, &data)

	return &WebhookEvent{
		Provider:          ProviderMidtrans,
		Type:              notif.TransactionStatus,
		ProviderPaymentID: notif.OrderID,
		Status:            mapMidtransStatus(notif.TransactionStatus, notif.FraudStatus),
		Data:              data,
	}, nil
}

/* =========================================================
   Utils
========================================================= */

func sha512Hex(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

// parseGrossAmount normalizes midtrans' stringly "10000.00" amounts.
func parseGrossAmount(s string) int64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f + 0.5)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
