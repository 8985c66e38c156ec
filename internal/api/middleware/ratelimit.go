package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sitecraft/website-builder/internal/api/metrics"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

type rateLimitResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// RateLimit counts requests per authenticated user, or per client IP when no
// caller is in context. Limiter errors let the request through.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			keyType, key := rateKey(c)

			d, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !d.Allowed {
				secs := int(math.Ceil(d.RetryAfter.Seconds()))
				metrics.RateLimitedTotal.WithLabelValues(keyType).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, rateLimitResponse{
					Error:      "Rate limit exceeded",
					Message:    "Too many requests. Please try again later.",
					RetryAfter: secs,
				})
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			return next(c)
		}
	}
}

func rateKey(c echo.Context) (string, string) {
	if p, ok := PrincipalFrom(c); ok {
		return "user", "user:" + p.UserID
	}
	return "ip", "ip:" + c.RealIP()
}
