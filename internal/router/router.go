// Package router wires the HTTP handlers onto echo with their
// authentication, role, cache and rate limit middleware.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/coworking-space/internal/config"
	"github.com/iliyamo/coworking-space/internal/handler"
	"github.com/iliyamo/coworking-space/internal/middleware"
	"github.com/iliyamo/coworking-space/internal/model"
)

// Options carries the settings the route middleware needs. Redis may be
// nil; the cache and rate limiter are then skipped.
type Options struct {
	JWTSecret string
	UploadDir string
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
}

// Handlers bundles one handler per resource.
type Handlers struct {
	Health         *handler.HealthHandler
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Spaces         *handler.SpaceHandler
	Reservations   *handler.ReservationHandler
	Subscriptions  *handler.SubscriptionHandler
	Events         *handler.EventHandler
	Payments       *handler.PaymentHandler
	Invoices       *handler.InvoiceHandler
	Unavailability *handler.UnavailabilityHandler
	Reviews        *handler.ReviewHandler
	Contact        *handler.ContactHandler
}

// gates holds the middleware shared by the Register* functions.
type gates struct {
	auth      echo.MiddlewareFunc
	admin     echo.MiddlewareFunc
	staff     echo.MiddlewareFunc
	coworker  echo.MiddlewareFunc
	adminOrCW echo.MiddlewareFunc
	opts      Options
}

func newGates(o Options) gates {
	return gates{
		auth:      middleware.JWTAuth(o.JWTSecret),
		admin:     middleware.RequireRole(model.RoleAdmin),
		staff:     middleware.RequireRole(model.RoleAdmin, model.RoleReceptionist),
		coworker:  middleware.RequireRole(model.RoleCoworker),
		adminOrCW: middleware.RequireRole(model.RoleAdmin, model.RoleCoworker),
		opts:      o,
	}
}

// cached serves GETs of group from Redis.
func (g gates) cached(group string) echo.MiddlewareFunc {
	return middleware.NewRedisCache(g.opts.Cache, g.opts.Redis, group)
}

// purge drops the cached groups after a successful write.
func (g gates) purge(groups ...string) echo.MiddlewareFunc {
	return middleware.PurgeOnWrite(g.opts.Cache, g.opts.Redis, groups...)
}

// Register mounts every route.
func Register(e *echo.Echo, h Handlers, o Options) {
	g := newGates(o)
	RegisterRoutes(e, h.Health, o.UploadDir)
	RegisterAuth(e, h.Auth, g)
	RegisterAccounts(e, h.Users, h.Contact, g)
	RegisterCatalogue(e, h.Spaces, h.Unavailability, h.Reviews, g)
	RegisterBookings(e, h.Reservations, h.Subscriptions, h.Events, g)
	RegisterBilling(e, h.Payments, h.Invoices, g)
}

// RegisterRoutes mounts the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler, uploadDir string) {
	e.GET("/healthz", health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/uploads", uploadDir)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "coworking-space api")
	})
}

// RegisterAuth mounts /api/auth behind the token bucket limiter. Logout
// reads an optional bearer token to revoke every session of the caller.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g gates) {
	grp := e.Group("/api/auth", middleware.NewTokenBucket(g.opts.RateLimit, g.opts.Redis))
	grp.POST("/signin", a.SignIn)
	grp.POST("/signup", a.SignUp)
	grp.POST("/refresh", a.Refresh)
	grp.POST("/logout", a.Logout, middleware.OptionalJWT(g.opts.JWTSecret))
	grp.POST("/forgot-password", a.ForgotPassword)
	grp.POST("/reset-password", a.ResetPassword)
}
