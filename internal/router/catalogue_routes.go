package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/handler"
	"github.com/iliyamo/coworking-space/internal/model"
)

const (
	groupSpaces  = "espaces"
	groupEvents  = "evenements"
	groupReviews = "avis"
)

// RegisterCatalogue mounts spaces, unavailability windows and reviews.
// Public reads of spaces and reviews go through the Redis cache, and
// admin writes purge it.
func RegisterCatalogue(e *echo.Echo, s *handler.SpaceHandler, u *handler.UnavailabilityHandler, r *handler.ReviewHandler, g gates) {
	open, private := model.SpaceOpen, model.SpacePrivate
	for path, typ := range map[string]*model.SpaceType{
		"/api/espaces":         nil,
		"/api/espaces/ouverts": &open,
		"/api/espaces/prives":  &private,
	} {
		cache := g.cached(groupSpaces)
		e.GET(path, s.List(typ), cache)
		e.GET(path+"/:id", s.Get(typ), cache)

		write := []echo.MiddlewareFunc{g.auth, g.admin, g.purge(groupSpaces, groupEvents, groupReviews)}
		e.POST(path, s.Create(typ), write...)
		e.PUT(path+"/:id", s.Update(typ), write...)
		e.DELETE(path+"/:id", s.Delete(typ), write...)
	}

	e.GET("/api/indisponibilites", u.List)
	e.GET("/api/indisponibilites/:id", u.Get, g.auth)
	un := e.Group("/api/indisponibilites", g.auth, g.admin)
	un.POST("", u.Create)
	un.PUT("/:id", u.Update)
	un.DELETE("/:id", u.Delete)

	cache := g.cached(groupReviews)
	e.GET("/api/avis", r.List, cache)
	e.GET("/api/avis/espace/:id", r.ListBySpace, cache)
	e.GET("/api/avis/:id", r.Get, cache)
	e.POST("/api/avis", r.Create, g.auth, g.coworker, g.purge(groupReviews))
	e.DELETE("/api/avis/:id", r.Delete, g.auth, g.adminOrCW, g.purge(groupReviews))
}
