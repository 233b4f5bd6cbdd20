// file: internals/features/finance/payments/route/payment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	paymentcontroller "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/controller"
)

// PaymentRoutes mounts the authenticated payment API under api.
func PaymentRoutes(api fiber.Router, ctl *paymentcontroller.PaymentController) {
	payments := api.Group("/payments")

	payments.Post("/", ctl.CreatePayment)
	payments.Get("/transactions", ctl.ListTransactions)

	payments.Post("/customers", ctl.CreateCustomer)
	payments.Get("/customers/:provider/:id", ctl.GetCustomer)

	payments.Get("/:provider/:id", ctl.GetPayment)
	payments.Post("/:provider/:id/refund", ctl.RefundPayment)
}

// WebhookRoutes mounts the unauthenticated gateway callbacks at the app root.
func WebhookRoutes(app *fiber.App, ctl *paymentcontroller.WebhookController) {
	hooks := app.Group("/webhooks")

	hooks.Post("/midtrans", ctl.HandleMidtrans)
	hooks.Post("/stripe", ctl.HandleStripe)
}
