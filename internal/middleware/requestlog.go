package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/metrics"
	"github.com/iliyamo/movie-review-backend/internal/response"
)

// RequestContext copies the echo request id into the request context so
// logging.Ctx can tag every line of the request.  It must run after echo's
// RequestID middleware.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = logging.NewRequestID()
				c.Response().Header().Set(echo.HeaderXRequestID, id)
			}
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
			return next(c)
		}
	}
}

// RequestLogger logs one line per request and records HTTP metrics.  The
// envelope status is logged next to the transport status.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRoutePath: true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			status := v.Status
			if code, err := strconv.Atoi(c.Response().Header().Get(response.HeaderStatusCode)); err == nil {
				status = code
			}
			envelope := strconv.Itoa(status)
			metrics.HTTPRequests.WithLabelValues(v.RoutePath, v.Method, envelope).Inc()
			metrics.HTTPDuration.WithLabelValues(v.RoutePath, v.Method).Observe(v.Latency.Seconds())

			var ev *zerolog.Event
			switch {
			case v.Error != nil || status >= 500:
				ev = logging.Error().Err(v.Error)
			case status >= 400:
				ev = logging.Warn()
			default:
				ev = logging.Info()
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Str("envelope_status", envelope).
				Str("remote_ip", v.RemoteIP).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}
