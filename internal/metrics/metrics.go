// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworking_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coworking_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	reservationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworking_reservations_created_total",
			Help: "Reservations created by space type",
		},
		[]string{"type"},
	)

	eventRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworking_event_registrations_total",
			Help: "Event registrations and cancellations",
		},
		[]string{"operation"},
	)

	mailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworking_mail_deliveries_total",
			Help: "Outbound mail by result",
		},
		[]string{"result"},
	)
)

// TrackReservationCreated counts a reservation on a space of spaceType.
func TrackReservationCreated(spaceType string) {
	reservationsCreated.WithLabelValues(spaceType).Inc()
}

// TrackEventRegistration counts "register" and "cancel" operations.
func TrackEventRegistration(operation string) {
	eventRegistrations.WithLabelValues(operation).Inc()
}

// TrackMail counts one delivery attempt.
func TrackMail(err error) {
	if err != nil {
		mailDeliveries.WithLabelValues("failed").Inc()
		return
	}
	mailDeliveries.WithLabelValues("sent").Inc()
}

// Middleware records request count and latency per route pattern, so
// /api/reservations/:id is one series regardless of the id.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
