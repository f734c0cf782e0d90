package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/handler"
)

// RegisterBookings mounts reservations, subscriptions and events.
// Ownership of a reservation or subscription is checked in the handlers.
func RegisterBookings(e *echo.Echo, r *handler.ReservationHandler, s *handler.SubscriptionHandler, ev *handler.EventHandler, g gates) {
	e.GET("/api/reservations/space/:spaceId", r.ListBySpace)
	res := e.Group("/api/reservations", g.auth)
	res.GET("", r.List, g.staff)
	res.POST("", r.Create, g.coworker)
	res.GET("/user/:userId", r.ListByUser, g.coworker)
	res.GET("/:id", r.Get)
	res.PUT("/:id", r.Update)
	res.DELETE("/:id", r.Delete, g.adminOrCW)

	e.GET("/api/abonnements", s.List)
	e.GET("/api/abonnements/price/:type", s.Price)
	abo := e.Group("/api/abonnements", g.auth)
	abo.POST("", s.Create, g.coworker)
	abo.POST("/for-all-coworkers", s.CreateForAllCoworkers, g.admin)
	abo.GET("/user/:userId", s.ListByUser)
	abo.GET("/check-valid/:userId/:espaceOuvertId", s.CheckValid)
	abo.GET("/:id", s.Get)
	abo.PUT("/:id", s.Update)
	abo.DELETE("/:id", s.Delete, g.adminOrCW)

	cache := g.cached(groupEvents)
	e.GET("/api/evenements", ev.List, cache)
	e.GET("/api/evenements/:id", ev.Get, cache)
	write := e.Group("/api/evenements", g.auth, g.purge(groupEvents))
	write.POST("", ev.Create, g.admin)
	write.PUT("/:id", ev.Update, g.admin)
	write.DELETE("/:id", ev.Delete, g.admin)
	write.POST("/:id/register/:userId", ev.Register)
	write.POST("/:id/cancel/:userId", ev.Cancel)
}
