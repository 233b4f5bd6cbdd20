// file: internals/features/finance/subscriptions/route/subscription_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	subscriptioncontroller "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/controller"
)

func SubscriptionRoutes(api fiber.Router, ctl *subscriptioncontroller.SubscriptionController) {
	subs := api.Group("/subscriptions")

	subs.Get("/:id", ctl.GetSubscription)
	subs.Patch("/:id", ctl.UpdateSubscription)
	subs.Post("/:id/cancel", ctl.CancelSubscription)
}
