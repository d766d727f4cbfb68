package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== Login =====
func (h *Handler) Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return apperr.Validation("invalid request")
	}
	req.Email = normalizeEmail(req.Email)
	if err := h.validate.Struct(req); err != nil {
		return apperr.FromValidator(err)
	}

	ctx := c.Request().Context()
	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.Auth("invalid credentials")
		}
		return apperr.Storage("Server error", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return apperr.Auth("invalid credentials")
	}

	return h.respond(c, http.StatusOK, u)
}
