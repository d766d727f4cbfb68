package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/user"
)

// Me returns the currently authenticated user's profile
func (h *Handler) Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return apperr.Auth("unauthorized")
	}

	u, err := h.Users.FindByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.NotFound("user")
		}
		return apperr.Storage("Server error", err)
	}
	return c.JSON(http.StatusOK, u)
}
