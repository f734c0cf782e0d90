package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// UnavailabilityHandler serves /api/indisponibilites.
type UnavailabilityHandler struct {
	Unavailabilities UnavailabilityService
}

func NewUnavailabilityHandler(u UnavailabilityService) *UnavailabilityHandler {
	return &UnavailabilityHandler{Unavailabilities: u}
}

type unavailabilityReq struct {
	SpaceID *uint64        `json:"espaceId"`
	Start   model.DateTime `json:"dateDebut"`
	End     model.DateTime `json:"dateFin"`
	Reason  *string        `json:"raison"`
}

func (r unavailabilityReq) input() service.UnavailabilityInput {
	return service.UnavailabilityInput{
		SpaceID: r.SpaceID,
		Start:   r.Start.Ptr(),
		End:     r.End.Ptr(),
		Reason:  r.Reason,
	}
}

func (h *UnavailabilityHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Unavailabilities.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(list, toUnavailability))
}

func (h *UnavailabilityHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Unavailabilities.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUnavailability(u))
}

func (h *UnavailabilityHandler) Create(c echo.Context) error {
	var req unavailabilityReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Unavailabilities.Create(ctx, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toUnavailability(u))
}

func (h *UnavailabilityHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req unavailabilityReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Unavailabilities.Update(ctx, id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUnavailability(u))
}

func (h *UnavailabilityHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Unavailabilities.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
