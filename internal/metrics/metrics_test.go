package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/espaces/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/espaces/:id", "204"))
	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/espaces/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/espaces/:id", "204"))
	assert.Equal(t, 2.0, after-before)
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "no") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/boom", "418")))
}

func TestTrackMail(t *testing.T) {
	sent := testutil.ToFloat64(mailDeliveries.WithLabelValues("sent"))
	failed := testutil.ToFloat64(mailDeliveries.WithLabelValues("failed"))
	TrackMail(nil)
	TrackMail(errors.New("smtp down"))
	assert.Equal(t, sent+1, testutil.ToFloat64(mailDeliveries.WithLabelValues("sent")))
	assert.Equal(t, failed+1, testutil.ToFloat64(mailDeliveries.WithLabelValues("failed")))
}
