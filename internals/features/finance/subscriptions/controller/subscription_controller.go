// file: internals/features/finance/subscriptions/controller/subscription_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/dto"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/subscriptions/service"
	helper "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/helpers"
)

type SubscriptionController struct {
	Subscriptions *service.SubscriptionService
	Validate      *validator.Validate
}

func NewSubscriptionController(subs *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		Subscriptions: subs,
		Validate:      validator.New(),
	}
}

// GET /api/subscriptions/:id
func (ctl *SubscriptionController) GetSubscription(c *fiber.Ctx) error {
	subID, actorID, err := ctl.ids(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	sub, err := ctl.Subscriptions.Get(c.UserContext(), subID, actorID)
	if err != nil {
		return ctl.mapServiceError(c, err)
	}
	return helper.Success(c, "subscription retrieved", dto.ToSubscriptionResponse(sub))
}

// PATCH /api/subscriptions/:id
func (ctl *SubscriptionController) UpdateSubscription(c *fiber.Ctx) error {
	subID, actorID, err := ctl.ids(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	sub, err := ctl.Subscriptions.Update(c.UserContext(), subID, actorID, service.UpdateParams{
		PlanType:         req.PlanType,
		Amount:           req.Amount,
		CurrentPeriodEnd: req.CurrentPeriodEnd,
	})
	if err != nil {
		return ctl.mapServiceError(c, err)
	}
	return helper.Success(c, "subscription updated", dto.ToSubscriptionResponse(sub))
}

// POST /api/subscriptions/:id/cancel
func (ctl *SubscriptionController) CancelSubscription(c *fiber.Ctx) error {
	subID, actorID, err := ctl.ids(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	sub, err := ctl.Subscriptions.Cancel(c.UserContext(), subID, actorID)
	if err != nil {
		return ctl.mapServiceError(c, err)
	}
	return helper.Success(c, "subscription will end at period close", dto.ToSubscriptionResponse(sub))
}

func (ctl *SubscriptionController) ids(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid subscription id")
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return subID, actorID, nil
}

func (ctl *SubscriptionController) mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return helper.Error(c, fiber.StatusNotFound, "subscription not found")
	case errors.Is(err, service.ErrForbidden):
		return helper.Error(c, fiber.StatusForbidden, "not allowed to manage this subscription")
	}
	var ge *gateway.GatewayError
	if errors.As(err, &ge) {
		return helper.Error(c, fiber.StatusBadGateway, ge.Message)
	}
	return helper.FromFiberError(c, err)
}
