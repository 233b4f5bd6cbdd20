// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/dto"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/gateway"
	"github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/features/finance/payments/service"
	helper "github.com/JahanzaibImran/mypreschoolpro-be-sub000/internals/helpers"
)

type PaymentController struct {
	Payments *service.PaymentService
	Ledger   *service.LedgerService
	Validate *validator.Validate
}

func NewPaymentController(payments *service.PaymentService, ledger *service.LedgerService) *PaymentController {
	return &PaymentController{
		Payments: payments,
		Ledger:   ledger,
		Validate: validator.New(),
	}
}

// POST /api/payments
func (ctl *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	params := service.CreatePaymentParams{
		Provider:        gateway.Provider(req.Provider),
		Amount:          req.Amount,
		Currency:        req.Currency,
		CustomerID:      req.CustomerID,
		Description:     req.Description,
		PaymentMethodID: req.PaymentMethodID,
		Metadata:        req.Metadata,
		UserID:          &userID,
		SchoolID:        req.SchoolID,
		SubscriptionID:  req.SubscriptionID,
	}
	if req.Customer != nil {
		params.Customer = &gateway.CustomerDetails{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
		}
	}

	res, err := ctl.Payments.CreatePayment(c.UserContext(), params)
	if err != nil {
		var upe *gateway.UnsupportedProviderError
		if errors.As(err, &upe) {
			return helper.Error(c, fiber.StatusBadRequest, upe.Error())
		}
		var ge *gateway.GatewayError
		if errors.As(err, &ge) && res != nil && res.Transaction != nil {
			// the attempt is ledgered; surface the decline with its record
			return helper.ErrorWithDetails(c, fiber.StatusPaymentRequired, ge.Message,
				dto.ToTransactionResponse(res.Transaction))
		}
		return helper.Error(c, fiber.StatusBadGateway, "payment gateway error")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "payment created", dto.CreatePaymentResponse{
		Transaction: dto.ToTransactionResponse(res.Transaction),
		CheckoutURL: res.Intent.CheckoutURL,
		ClientToken: res.Intent.ClientToken,
	})
}

// GET /api/payments/:provider/:id
func (ctl *PaymentController) GetPayment(c *fiber.Ctx) error {
	provider := gateway.Provider(c.Params("provider"))
	id := c.Params("id")
	if id == "" {
		return helper.Error(c, fiber.StatusBadRequest, "payment id is required")
	}

	tr, intent, err := ctl.Payments.GetPayment(c.UserContext(), provider, id)
	if err != nil {
		return ctl.mapServiceError(c, err)
	}

	return helper.Success(c, "payment retrieved", fiber.Map{
		"transaction":   dto.ToTransactionResponse(tr),
		"native_status": intent.NativeStatus,
	})
}

// POST /api/payments/:provider/:id/refund
func (ctl *PaymentController) RefundPayment(c *fiber.Ctx) error {
	var req dto.RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Provider = c.Params("provider")
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ref, err := ctl.Payments.RefundPayment(c.UserContext(), service.RefundParams{
		Provider:          gateway.Provider(req.Provider),
		ProviderPaymentID: c.Params("id"),
		Amount:            req.Amount,
		Reason:            req.Reason,
		RequestedBy:       &userID,
	})
	if err != nil {
		return ctl.mapServiceError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "refund recorded", dto.ToRefundResponse(ref))
}

// POST /api/payments/customers
func (ctl *PaymentController) CreateCustomer(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	cust, err := ctl.Payments.CreateCustomer(c.UserContext(), gateway.Provider(req.Provider), gateway.CreateCustomerInput{
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		Metadata: req.Metadata,
	})
	if err != nil {
		return ctl.mapServiceError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "customer created", dto.ToCustomerResponse(cust))
}

// GET /api/payments/customers/:provider/:id
func (ctl *PaymentController) GetCustomer(c *fiber.Ctx) error {
	cust, err := ctl.Payments.GetCustomer(c.UserContext(), gateway.Provider(c.Params("provider")), c.Params("id"))
	if err != nil {
		return ctl.mapServiceError(c, err)
	}
	return helper.Success(c, "customer retrieved", dto.ToCustomerResponse(cust))
}

// GET /api/payments/transactions
func (ctl *PaymentController) ListTransactions(c *fiber.Ctx) error {
	var q dto.ListTransactionsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := ctl.Validate.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	filter, err := listTransactionsFilter(q, paging)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	rows, total, err := ctl.Ledger.ListTransactions(c.UserContext(), filter)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "failed to list transactions")
	}

	return helper.Success(c, "transactions retrieved", fiber.Map{
		"transactions": dto.ToTransactionResponses(rows),
		"pagination":   helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

// listTransactionsFilter translates the query string into the ledger filter.
func listTransactionsFilter(q dto.ListTransactionsQuery, paging helper.Paging) (service.ListTransactionsFilter, error) {
	filter := service.ListTransactionsFilter{
		Provider: q.Provider,
		Status:   q.Status,
		Limit:    paging.Limit,
		Offset:   paging.Offset,
	}
	if q.SchoolID != "" {
		sid, err := uuid.Parse(q.SchoolID)
		if err != nil {
			return service.ListTransactionsFilter{}, errors.New("invalid school_id")
		}
		filter.SchoolID = &sid
	}
	if q.UserID != "" {
		uid, err := uuid.Parse(q.UserID)
		if err != nil {
			return service.ListTransactionsFilter{}, errors.New("invalid user_id")
		}
		filter.UserID = &uid
	}
	return filter, nil
}

func (ctl *PaymentController) mapServiceError(c *fiber.Ctx, err error) error {
	var upe *gateway.UnsupportedProviderError
	if errors.As(err, &upe) {
		return helper.Error(c, fiber.StatusBadRequest, upe.Error())
	}
	switch {
	case errors.Is(err, service.ErrTransactionNotFound):
		return helper.Error(c, fiber.StatusNotFound, "transaction not found")
	case errors.Is(err, service.ErrRefundExceedsAmount):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrTransactionNotRefundable):
		return helper.Error(c, fiber.StatusConflict, err.Error())
	}
	var ge *gateway.GatewayError
	if errors.As(err, &ge) {
		return helper.Error(c, fiber.StatusBadGateway, ge.Message)
	}
	return helper.FromFiberError(c, err)
}
