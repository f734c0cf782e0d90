package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/service"
)

// ReviewHandler serves /api/avis.
type ReviewHandler struct {
	Reviews ReviewService
}

func NewReviewHandler(r ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: r}
}

type reviewReq struct {
	SpaceID uint64 `json:"espaceId"`
	Rating  int    `json:"rating"`
	Comment string `json:"commentaire"`
}

func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reviews.List(ctx, nil)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(list, toReview))
}

func (h *ReviewHandler) ListBySpace(c echo.Context) error {
	spaceID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reviews.List(ctx, &spaceID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(list, toReview))
}

func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Reviews.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReview(r))
}

// Create posts a review authored by the caller.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Reviews.Create(ctx, service.ReviewInput{
		UserID:  uid,
		SpaceID: req.SpaceID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toReview(r))
}

// Delete removes a review. Coworkers may only delete their own.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Reviews.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if !sameUserOrStaff(c, r.UserID) {
		return forbidden(c)
	}
	if err := h.Reviews.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
