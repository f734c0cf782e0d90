package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the database and, when configured, Redis
// answer. Redis being down degrades caching only, so it never fails the
// check.
type HealthHandler struct {
	DB    Pinger
	Redis *redis.Client
}

func NewHealthHandler(db Pinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := echo.Map{"status": "ok", "database": "up"}
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "down"
		}
	}
	switch {
	case h.Redis == nil:
		body["redis"] = "disabled"
	case h.Redis.Ping(ctx).Err() != nil:
		body["redis"] = "down"
	default:
		body["redis"] = "up"
	}
	return c.JSON(status, body)
}
