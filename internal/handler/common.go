package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/logging"
	"github.com/iliyamo/coworking-space/internal/middleware"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// getUserID returns the authenticated caller's id.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errors.New("invalid user_id in context")
	}
	return id, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// statusOf maps a service error kind onto an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenAlreadyUsed):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSubscriptionRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUnavailable),
		errors.Is(err, service.ErrIllegalState),
		errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": message}. Unexpected errors are logged and
// answered with a generic 500.
func fail(c echo.Context, err error) error {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("request failed",
			"path", c.Path(), "err", err)
		msg := "internal error"
		if status == http.StatusGatewayTimeout {
			msg = "request timed out"
		}
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(status, echo.Map{"error": service.Message(err)})
}

// sameUserOrStaff allows ADMIN and RECEPTIONISTE, or the user acting on
// their own id.
func sameUserOrStaff(c echo.Context, userID uint64) bool {
	switch middleware.Role(c) {
	case model.RoleAdmin, model.RoleReceptionist:
		return true
	}
	id, err := getUserID(c)
	return err == nil && id == userID
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
}
