package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/api/metrics"
	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

const principalKey = "principal"

// Auth verifies the session token and injects the caller into context.
// The token comes from "Authorization: Bearer <token>" or, when that header
// is absent, the "token" query parameter.
func Auth(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}

			p, err := sessions.Verify(c.Request().Context(), token)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}

			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the caller injected by Auth.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

// SetPrincipal is used by tests and by routes that resolve the caller elsewhere.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

func extractToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		if t := c.QueryParam("token"); t != "" {
			return t, nil
		}
		return "", domain.ErrTokenMissing
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", domain.ErrTokenMalformed
	}
	return strings.TrimSpace(parts[1]), nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrSubjectNotFound):
		return "unknown_subject"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "error"
	}
}
