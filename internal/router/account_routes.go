package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/handler"
)

// RegisterAccounts mounts users, the caller's profile and the contact form.
// User writes drop the event and review caches, which embed user names.
func RegisterAccounts(e *echo.Echo, u *handler.UserHandler, contact *handler.ContactHandler, g gates) {
	touched := g.purge(groupEvents, groupReviews)

	users := e.Group("/api/users", g.auth)
	users.GET("", u.List, g.admin)
	users.POST("", u.Create, g.admin)
	users.GET("/:id", u.Get)
	users.PUT("/:id", u.Update, touched)
	users.DELETE("/:id", u.Delete, g.admin, touched)
	users.PATCH("/:id/toggle-status", u.ToggleStatus, g.admin)

	profile := e.Group("/api/profile", g.auth)
	profile.GET("", u.Profile)
	profile.PUT("", u.UpdateProfile, touched)
	profile.POST("/image", u.UploadImage)

	e.POST("/api/contact", contact.Send)
}
