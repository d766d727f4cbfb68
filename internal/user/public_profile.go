package user

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/propnest/internal/apperr"
)

// Handler serves user lookups.
type Handler struct {
	Repo Repository
}

// GET /users/:id/profile
func (h *Handler) GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return apperr.Validation("missing user id")
	}

	u, err := h.Repo.FindByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("user")
		}
		return apperr.Storage("failed to fetch user", err)
	}

	// email stays private; owners are reached through enquiries
	return c.JSON(http.StatusOK, echo.Map{
		"id":         u.ID,
		"name":       u.Name,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	})
}
