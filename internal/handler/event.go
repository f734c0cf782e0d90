package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// EventHandler serves /api/evenements.
type EventHandler struct {
	Events EventService
}

func NewEventHandler(e EventService) *EventHandler {
	return &EventHandler{Events: e}
}

type eventReq struct {
	Title           *string          `json:"titre"`
	Description     *string          `json:"description"`
	StartDate       model.DateTime   `json:"startDate"`
	EndDate         model.DateTime   `json:"endDate"`
	Price           *decimal.Decimal `json:"price"`
	MaxParticipants *int             `json:"maxParticipants"`
	Active          *bool            `json:"isActive"`
	SpaceID         *uint64          `json:"espaceId"`
}

func (r eventReq) input() service.EventInput {
	return service.EventInput{
		Title:           r.Title,
		Description:     r.Description,
		StartDate:       r.StartDate.Ptr(),
		EndDate:         r.EndDate.Ptr(),
		Price:           r.Price,
		MaxParticipants: r.MaxParticipants,
		Active:          r.Active,
		SpaceID:         r.SpaceID,
	}
}

func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(events, toEvent))
}

func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toEvent(e))
}

func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.Create(ctx, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toEvent(e))
}

func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.Update(ctx, id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toEvent(e))
}

func (h *EventHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// participation parses :id and :userId and checks the caller may act for
// that user.
func participation(c echo.Context) (eventID, userID uint64, ok bool, err error) {
	if eventID, err = pathID(c, "id"); err != nil {
		return 0, 0, false, badRequest(c, err.Error())
	}
	if userID, err = pathID(c, "userId"); err != nil {
		return 0, 0, false, badRequest(c, err.Error())
	}
	if !sameUserOrStaff(c, userID) {
		return 0, 0, false, forbidden(c)
	}
	return eventID, userID, true, nil
}

func (h *EventHandler) Register(c echo.Context) error {
	eventID, userID, ok, err := participation(c)
	if !ok {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.Register(ctx, eventID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toEvent(e))
}

func (h *EventHandler) Cancel(c echo.Context) error {
	eventID, userID, ok, err := participation(c)
	if !ok {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.Cancel(ctx, eventID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toEvent(e))
}
