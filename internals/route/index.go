// file: internals/route/index.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	leadservice "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/admissions/leads/service"
	paymentcontroller "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/controller"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	paymentroute "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/route"
	paymentservice "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/service"
	subscriptioncontroller "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/controller"
	subscriptionroute "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/route"
	subscriptionservice "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/service"
	schoolservice "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/schools/service"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/configs"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/middlewares/auth"
)

// SetupRoutes wires gateways, services, and controllers, then mounts the
// authenticated /api group and the signature-verified /webhooks group.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.PaymentConfig) {
	midtransGW := gateway.NewMidtransGateway(gateway.MidtransConfig{
		ServerKey:     cfg.MidtransServerKey,
		UseProduction: cfg.MidtransUseProd,
	})
	stripeGW := gateway.NewStripeGateway(gateway.StripeConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
	})
	registry := gateway.NewRegistry(midtransGW, stripeGW)

	ledger := paymentservice.NewLedgerService(db)
	effects := paymentservice.NewSideEffectDispatcher(db, leadservice.NewLeadService())
	events := paymentservice.NewWebhookEventLog(db)
	txRunner := paymentservice.NewGormTxRunner(db)

	schools := schoolservice.NewSchoolService(db)
	subscriptions := subscriptionservice.NewSubscriptionService(
		subscriptionservice.NewGormStore(db),
		schools,
		stripeGW,
	)

	payments := paymentservice.NewPaymentService(registry, ledger, effects, events, txRunner)
	payments.Subscriptions = subscriptions
	payments.GatewayTimeout = cfg.GatewayTimeout

	paymentCtl := paymentcontroller.NewPaymentController(payments, ledger)
	webhookCtl := paymentcontroller.NewWebhookController(payments)
	subscriptionCtl := subscriptioncontroller.NewSubscriptionController(subscriptions)

	paymentroute.WebhookRoutes(app, webhookCtl)

	api := app.Group("/api", auth.AuthMiddleware())
	paymentroute.PaymentRoutes(api, paymentCtl)
	subscriptionroute.SubscriptionRoutes(api, subscriptionCtl)
}
