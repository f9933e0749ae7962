package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

// RequireRole admits only callers whose role is in the allowed set. Admins
// pass every check that admits them; a caller with role user must also own
// the vendor id in the route path, so one tenant can never act on another.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := Identity(c)
			if _, ok := allowed[identity.Role]; !ok {
				return domain.ErrForbidden
			}
			if identity.Role == domain.RoleUser {
				if vendorID := c.Param("vendor_id"); vendorID != "" && vendorID != identity.ID {
					return domain.ErrForbidden
				}
			}
			return next(c)
		}
	}
}
