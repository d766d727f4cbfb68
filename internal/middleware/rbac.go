package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/propnest/internal/apperr"
)

// RequireRoles ensures the requester's role is one of the allowed roles.
// Usage: route(..., JWT(tokens), RequireRoles("owner"))
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return apperr.Forbidden("role missing")
			}

			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return apperr.Forbidden("access denied")
		}
	}
}
