// file: internals/features/finance/payments/controller/webhook_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/service"
	helper "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/helpers"
)

type WebhookController struct {
	Payments *service.PaymentService
}

func NewWebhookController(payments *service.PaymentService) *WebhookController {
	return &WebhookController{Payments: payments}
}

// POST /webhooks/midtrans
// Midtrans carries the signature inside the JSON body, not a header.
func (ctl *WebhookController) HandleMidtrans(c *fiber.Ctx) error {
	return ctl.handle(c, gateway.ProviderMidtrans, "")
}

// POST /webhooks/stripe
func (ctl *WebhookController) HandleStripe(c *fiber.Ctx) error {
	return ctl.handle(c, gateway.ProviderStripe, c.Get("Stripe-Signature"))
}

// handle returns 400 only when verification fails. Duplicates, unknown
// payment ids, and event types we do not act on are all acknowledged with
// 200 so the gateway stops retrying.
func (ctl *WebhookController) handle(c *fiber.Ctx, provider gateway.Provider, signature string) error {
	payload := c.Body()

	outcome, err := ctl.Payments.HandleWebhook(c.UserContext(), provider, payload, signature)
	if err != nil {
		var ve *gateway.WebhookVerificationError
		if errors.As(err, &ve) {
			return helper.Error(c, fiber.StatusBadRequest, "invalid webhook signature")
		}
		var upe *gateway.UnsupportedProviderError
		if errors.As(err, &upe) {
			return helper.Error(c, fiber.StatusNotFound, upe.Error())
		}
		return helper.Error(c, fiber.StatusInternalServerError, "webhook processing failed")
	}

	return helper.Success(c, "webhook received", fiber.Map{
		"disposition": outcome.Disposition,
	})
}
