package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/propnest/internal/logging"
)

// HTTPErrorHandler writes every handler error as JSON:
// 4xx as {message}, 5xx as {message, error}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	log := logging.FromContext(c.Request().Context())

	var (
		appErr  *Error
		echoErr *echo.HTTPError
		status  = http.StatusInternalServerError
		body    echo.Map
	)
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status()
		if status >= http.StatusInternalServerError {
			detail := appErr.Message
			if appErr.Err != nil {
				detail = appErr.Err.Error()
			}
			body = echo.Map{"message": appErr.Message, "error": detail}
		} else {
			body = echo.Map{"message": appErr.Message}
		}
	case errors.As(err, &echoErr):
		status = echoErr.Code
		msg := http.StatusText(status)
		if m, ok := echoErr.Message.(string); ok {
			msg = m
		}
		body = echo.Map{"message": msg}
		if status >= http.StatusInternalServerError {
			body["error"] = err.Error()
		}
	default:
		body = echo.Map{"message": "Server error", "error": err.Error()}
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "error", err)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error("write error response", "error", err)
	}
}
