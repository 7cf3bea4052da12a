package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"bazaarbondhu/pkg/logger"
)

// RequestLogger writes one zerolog line per request and attaches a request
// scoped logger carrying the request id.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		BeforeNextFunc: func(c echo.Context) {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			l := logger.Get().With().Str("request_id", id).Logger()
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), l)))
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			event := logger.FromContext(c.Request().Context()).Info()
			if v.Error != nil || v.Status >= 500 {
				event = logger.FromContext(c.Request().Context()).Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
