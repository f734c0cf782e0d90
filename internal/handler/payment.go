package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// PaymentHandler serves /api/paiements (staff only).
type PaymentHandler struct {
	Payments PaymentService
}

func NewPaymentHandler(p PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: p}
}

type paymentReq struct {
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"montant"`
	Date           model.DateTime  `json:"date"`
	Status         string          `json:"statut"`
	UserID         *uint64         `json:"userId"`
	ReservationID  *uint64         `json:"reservationId"`
	SubscriptionID *uint64         `json:"abonnementId"`
	EventID        *uint64         `json:"evenementId"`
}

func (r paymentReq) input() service.PaymentInput {
	return service.PaymentInput{
		Type:           model.PaymentType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Amount:         r.Amount,
		Date:           r.Date.Ptr(),
		Status:         model.PaymentStatus(strings.ToUpper(strings.TrimSpace(r.Status))),
		UserID:         r.UserID,
		ReservationID:  r.ReservationID,
		SubscriptionID: r.SubscriptionID,
		EventID:        r.EventID,
	}
}

func (h *PaymentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Payments.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(list, toPayment))
}

func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPayment(p))
}

func (h *PaymentHandler) Create(c echo.Context) error {
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Create(ctx, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toPayment(p))
}

func (h *PaymentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.Update(ctx, id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPayment(p))
}

func (h *PaymentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Payments.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
