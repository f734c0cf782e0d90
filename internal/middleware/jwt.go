package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the user id, role
// and email in the echo context (see UserID and Role).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			if err := authenticate(c, secret, raw); err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			return next(c)
		}
	}
}

// OptionalJWT authenticates the request when a valid Bearer token is
// present and otherwise lets it through as a guest.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearer(c); ok {
				_ = authenticate(c, secret, raw)
			}
			return next(c)
		}
	}
}

func bearer(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func authenticate(c echo.Context, secret, raw string) error {
	claims, err := utils.ParseAccessToken(secret, raw)
	if err != nil {
		return err
	}
	id, err := claims.UserID()
	if err != nil {
		return err
	}
	c.Set(KeyUserID, id)
	c.Set(KeyRole, model.Role(claims.Role))
	c.Set(KeyEmail, claims.Email)
	return nil
}
