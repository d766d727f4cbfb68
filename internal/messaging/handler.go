package messaging

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/propnest/internal/apperr"
)

type Handler struct {
	Svc *Service
	Hub *Hub
}

func callerID(c echo.Context) (string, error) {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return "", apperr.Auth("unauthorized")
	}
	return uid, nil
}

// POST /messages
func (h *Handler) SendMessage(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}

	var in SendInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid payload")
	}

	e, err := h.Svc.Send(c.Request().Context(), uid, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": e})
}

// GET /messages - enquiries addressed to the caller
func (h *Handler) ListMessages(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.Inbox(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": items})
}

// PATCH /messages/:id/read
func (h *Handler) MarkMessageRead(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}

	e, err := h.Svc.MarkRead(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": e})
}

// GET /messages/ws - live feed of the caller's enquiries
func (h *Handler) Feed(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	return h.Hub.Serve(c, uid)
}
