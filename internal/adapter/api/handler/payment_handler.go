package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/response"
)

type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

type createIntentRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type recordPaymentRequest struct {
	ProductID     string   `json:"productId" validate:"required"`
	TransactionID string   `json:"transactionId" validate:"required"`
	PaymentMethod []string `json:"paymentMethod"`
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	intent, err := h.paymentUseCase.CreatePaymentIntent(c.Request().Context(), callerFrom(c), req.ProductID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, intent)
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.paymentUseCase.RecordPayment(c.Request().Context(), callerFrom(c), usecase.RecordPaymentInput{
		ProductID:     req.ProductID,
		TransactionID: req.TransactionID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, order)
}

func (h *PaymentHandler) listOrders(c echo.Context, view access.ListView) error {
	params, err := listParams(c, access.ResourceOrders, view, true)
	if err != nil {
		return response.Error(c, err)
	}

	orders, total, err := h.paymentUseCase.ListOrders(c.Request().Context(), params)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, orders, total, params.Page, params.Limit)
}

func (h *PaymentHandler) MyOrders(c echo.Context) error {
	return h.listOrders(c, access.ViewMine)
}

func (h *PaymentHandler) AllOrders(c echo.Context) error {
	return h.listOrders(c, access.ViewAll)
}
