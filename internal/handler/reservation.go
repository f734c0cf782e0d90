package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// ReservationHandler serves /api/reservations.
type ReservationHandler struct {
	Reservations ReservationService
}

func NewReservationHandler(r ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: r}
}

type reservationReq struct {
	UserID        *uint64                  `json:"userId"`
	SpaceID       uint64                   `json:"espaceId"`
	Start         model.DateTime           `json:"dateDebut"`
	End           model.DateTime           `json:"dateFin"`
	PaymentAmount *decimal.Decimal         `json:"paiementMontant"`
	PaymentValid  *bool                    `json:"paiementValide"`
	Status        *model.ReservationStatus `json:"statut"`
}

// Create books a space for the calling coworker. A userId in the body
// must match the caller.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.UserID != nil && *req.UserID != uid {
		return forbidden(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reservations.Create(ctx, service.CreateReservationInput{
		UserID:       uid,
		SpaceID:      req.SpaceID,
		Start:        req.Start.Time,
		End:          req.End.Time,
		Amount:       req.PaymentAmount,
		PaymentValid: req.PaymentValid,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toReservation(res))
}

func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reservations.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(list, toReservation))
}

// owned loads reservation :id and checks the caller may act on it.
func (h *ReservationHandler) owned(c echo.Context) (model.ReservationDetail, bool, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return model.ReservationDetail{}, false, badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reservations.Get(ctx, id)
	if err != nil {
		return model.ReservationDetail{}, false, fail(c, err)
	}
	if !sameUserOrStaff(c, res.UserID) {
		return model.ReservationDetail{}, false, forbidden(c)
	}
	return res, true, nil
}

func (h *ReservationHandler) Get(c echo.Context) error {
	res, ok, err := h.owned(c)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, toReservation(res))
}

func (h *ReservationHandler) Update(c echo.Context) error {
	res, ok, err := h.owned(c)
	if !ok {
		return err
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Status != nil && !req.Status.Valid() {
		return badRequest(c, "invalid statut")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	updated, err := h.Reservations.Update(ctx, res.ID, service.ReservationUpdate{
		Status:       req.Status,
		Start:        req.Start.Ptr(),
		End:          req.End.Ptr(),
		Amount:       req.PaymentAmount,
		PaymentValid: req.PaymentValid,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReservation(updated))
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	res, ok, err := h.owned(c)
	if !ok {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reservations.Delete(ctx, res.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByUser returns the caller's own reservations.
func (h *ReservationHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if uid, err := getUserID(c); err != nil || uid != userID {
		return forbidden(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(list, toReservation))
}

func (h *ReservationHandler) ListBySpace(c echo.Context) error {
	spaceID, err := pathID(c, "spaceId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reservations.ListBySpace(ctx, spaceID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(list, toReservation))
}
