package listing

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/propnest/internal/apperr"
)

// Handler exposes the listing service over HTTP.
type Handler struct {
	Svc *Service
}

// POST /properties/add (multipart, bearer auth, owners only)
func (h *Handler) CreateProperty(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return apperr.Auth("unauthorized")
	}

	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid request")
	}

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return apperr.Validation("invalid multipart form")
	}
	var files []*multipart.FileHeader
	if form != nil {
		files = form.File["images"]
	}

	created, err := h.Svc.Create(c.Request().Context(), uid, in, files)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Property added successfully",
		"property": created,
	})
}

// GET /properties
func (h *Handler) ListProperties(c echo.Context) error {
	views, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// GET /properties/:id
func (h *Handler) GetProperty(c echo.Context) error {
	v, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}
