package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/auth"
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// JWT authenticates the request from its bearer token and stores user_id and role
// on the context. Websocket clients cannot set headers, so a token query parameter
// is accepted as well.
func JWT(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return apperr.Auth("missing Authorization header")
			}
			claims, err := v.Verify(raw)
			if err != nil {
				return apperr.Auth("invalid or expired token")
			}
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	const prefix = "Bearer "
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	if header == "" && c.IsWebSocket() {
		return c.QueryParam("token")
	}
	return ""
}
