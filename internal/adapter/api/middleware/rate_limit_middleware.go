package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/infrastructure/ratelimit"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/logger"
	"bazaarbondhu/pkg/response"
)

// RateLimit throttles per client IP.
func RateLimit(rl *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ok, wait := rl.Allow(ip)
			if !ok {
				logger.FromContext(c.Request().Context()).Warn().
					Str("ip", ip).
					Dur("retry_after", wait).
					Msg("rate limit exceeded")

				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
