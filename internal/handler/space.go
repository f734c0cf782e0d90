package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// SpaceHandler serves /api/espaces and its ouverts/prives variants. The
// variant is fixed per route; nil means any type.
type SpaceHandler struct {
	Spaces SpaceService
}

func NewSpaceHandler(s SpaceService) *SpaceHandler {
	return &SpaceHandler{Spaces: s}
}

type spaceReq struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Capacity       *int             `json:"capacity"`
	PhotoPrincipal *string          `json:"photoPrincipal"`
	Gallery        []string         `json:"gallery"`
	Active         *bool            `json:"isActive"`
	Type           *model.SpaceType `json:"type"`
	PricePerDay    *decimal.Decimal `json:"prixParJour"`
	Amenities      []string         `json:"amenities"`
}

func (r spaceReq) input() service.SpaceInput {
	return service.SpaceInput{
		Name:           r.Name,
		Description:    r.Description,
		Capacity:       r.Capacity,
		PhotoPrincipal: r.PhotoPrincipal,
		Gallery:        r.Gallery,
		Active:         r.Active,
		PricePerDay:    r.PricePerDay,
		Amenities:      r.Amenities,
	}
}

func (h *SpaceHandler) List(typ *model.SpaceType) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := reqCtx(c)
		defer cancel()

		spaces, err := h.Spaces.List(ctx, typ)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, mapList(spaces, toSpace))
	}
}

func (h *SpaceHandler) Get(typ *model.SpaceType) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return badRequest(c, err.Error())
		}

		ctx, cancel := reqCtx(c)
		defer cancel()

		s, err := h.Spaces.Get(ctx, id, typ)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, toSpace(s))
	}
}

// Create adds a space. On the untyped route the body must name the type.
func (h *SpaceHandler) Create(typ *model.SpaceType) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req spaceReq
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		t := typ
		if t == nil {
			t = req.Type
		}
		if t == nil || (*t != model.SpaceOpen && *t != model.SpacePrivate) {
			return badRequest(c, "type must be OUVERT or PRIVE")
		}

		ctx, cancel := reqCtx(c)
		defer cancel()

		s, err := h.Spaces.Create(ctx, *t, req.input())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusCreated, toSpace(s))
	}
}

func (h *SpaceHandler) Update(typ *model.SpaceType) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return badRequest(c, err.Error())
		}
		var req spaceReq
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}

		ctx, cancel := reqCtx(c)
		defer cancel()

		s, err := h.Spaces.Update(ctx, id, typ, req.input())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, toSpace(s))
	}
}

func (h *SpaceHandler) Delete(typ *model.SpaceType) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return badRequest(c, err.Error())
		}

		ctx, cancel := reqCtx(c)
		defer cancel()

		if err := h.Spaces.Delete(ctx, id, typ); err != nil {
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
