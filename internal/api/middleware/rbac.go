package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

// RequireAdmin rejects callers whose role does not resolve to Admin.
// Must run after Auth.
func RequireAdmin(authz ports.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if !authz.IsAdmin(c.Request().Context(), p.RoleID) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
