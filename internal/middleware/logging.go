package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/coworking-space/internal/logging"
)

// RequestContext stores a logger tagged with the request id, method and
// path in the request context. It must run after echo's RequestID.
func RequestContext(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With(
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", req.Method,
				"path", req.URL.Path,
			)
			c.SetRequest(req.WithContext(logging.WithLogger(req.Context(), l)))
			return next(c)
		}
	}
}

// AccessLog writes one structured line per request.
func AccessLog(base *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", float64(v.Latency) / float64(time.Millisecond),
				"remote_ip", v.RemoteIP,
			}
			if id, ok := UserID(c); ok {
				attrs = append(attrs, "user_id", id)
			}
			switch {
			case v.Error != nil:
				base.Error("request", append(attrs, "err", v.Error.Error())...)
			case v.Status >= 500:
				base.Error("request", attrs...)
			default:
				base.Info("request", attrs...)
			}
			return nil
		},
	})
}
