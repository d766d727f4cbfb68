package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/logging"
	"github.com/sudo-init-do/propnest/internal/user"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=owner buyer"`
}

// AuthResponse is returned by signup and login; clients persist both fields.
type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Handler serves the account routes.
type Handler struct {
	Users    user.Repository
	Tokens   *Tokens
	validate *validator.Validate
}

func NewHandler(users user.Repository, tokens *Tokens) *Handler {
	return &Handler{Users: users, Tokens: tokens, validate: apperr.NewValidator()}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ===== Signup =====
func (h *Handler) Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return apperr.Validation("invalid request")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	if err := h.validate.Struct(req); err != nil {
		return apperr.FromValidator(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Storage("Server error", err)
	}

	u := &user.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     user.Role(req.Role),
	}
	ctx := c.Request().Context()
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return apperr.Validation("email already registered")
		}
		return apperr.Storage("Server error", err)
	}
	logging.FromContext(ctx).Info("account created", "user_id", u.ID, "role", u.Role)

	return h.respond(c, http.StatusCreated, u)
}

func (h *Handler) respond(c echo.Context, status int, u *user.User) error {
	signed, err := h.Tokens.Issue(u)
	if err != nil {
		return apperr.Storage("token generation failed", err)
	}
	return c.JSON(status, AuthResponse{Token: signed, User: u})
}
