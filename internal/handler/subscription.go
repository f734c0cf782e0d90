package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// SubscriptionHandler serves /api/abonnements.
type SubscriptionHandler struct {
	Subscriptions SubscriptionService
}

func NewSubscriptionHandler(s SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Subscriptions: s}
}

type subscriptionReq struct {
	UserID  *uint64                 `json:"userId"`
	SpaceID uint64                  `json:"espaceOuvertId"`
	Type    *model.SubscriptionType `json:"type"`
	Price   *decimal.Decimal        `json:"prix"`
	Start   *model.Date             `json:"dateDebut"`
}

func (r subscriptionReq) input(userID uint64) service.SubscriptionInput {
	in := service.SubscriptionInput{UserID: userID, SpaceID: r.SpaceID, Price: r.Price}
	if r.Type != nil {
		in.Type = *r.Type
	}
	if r.Start != nil {
		in.Start = *r.Start
	}
	return in
}

// Create subscribes the calling coworker to an open space.
func (h *SubscriptionHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	var req subscriptionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.UserID != nil && *req.UserID != uid {
		return forbidden(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sub, err := h.Subscriptions.Create(ctx, req.input(uid))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toSubscription(sub))
}

// CreateForAllCoworkers grants the same subscription to every COWORKER.
func (h *SubscriptionHandler) CreateForAllCoworkers(c echo.Context) error {
	var req subscriptionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	subs, err := h.Subscriptions.CreateForAllCoworkers(ctx, req.input(0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, mapList(subs, toSubscription))
}

func (h *SubscriptionHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	subs, err := h.Subscriptions.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(subs, toSubscription))
}

func (h *SubscriptionHandler) owned(c echo.Context) (model.SubscriptionDetail, bool, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return model.SubscriptionDetail{}, false, badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sub, err := h.Subscriptions.Get(ctx, id)
	if err != nil {
		return model.SubscriptionDetail{}, false, fail(c, err)
	}
	if !sameUserOrStaff(c, sub.UserID) {
		return model.SubscriptionDetail{}, false, forbidden(c)
	}
	return sub, true, nil
}

func (h *SubscriptionHandler) Get(c echo.Context) error {
	sub, ok, err := h.owned(c)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, toSubscription(sub))
}

func (h *SubscriptionHandler) Update(c echo.Context) error {
	sub, ok, err := h.owned(c)
	if !ok {
		return err
	}
	var req subscriptionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	updated, err := h.Subscriptions.Update(ctx, sub.ID, service.SubscriptionUpdate{
		Type:  req.Type,
		Price: req.Price,
		Start: req.Start,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toSubscription(updated))
}

func (h *SubscriptionHandler) Delete(c echo.Context) error {
	sub, ok, err := h.owned(c)
	if !ok {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Subscriptions.Delete(ctx, sub.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SubscriptionHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if !sameUserOrStaff(c, userID) {
		return forbidden(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	subs, err := h.Subscriptions.ListByUser(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(subs, toSubscription))
}

// CheckValid answers a bare JSON boolean.
func (h *SubscriptionHandler) CheckValid(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	spaceID, err := pathID(c, "espaceOuvertId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Subscriptions.HasValid(ctx, userID, spaceID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ok)
}

func (h *SubscriptionHandler) Price(c echo.Context) error {
	typ := model.SubscriptionType(strings.ToUpper(c.Param("type")))
	price, err := h.Subscriptions.Price(typ)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, price)
}
