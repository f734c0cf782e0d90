package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/model"
)

// Context keys set by JWTAuth.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
	KeyEmail  = "email"
)

// UserID returns the authenticated user's id.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(KeyUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated user's role, or "" for guests.
func Role(c echo.Context) model.Role {
	r, _ := c.Get(KeyRole).(model.Role)
	return r
}

// userKey identifies the caller in cache and rate limit keys.
func userKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}
