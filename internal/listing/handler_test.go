package listing

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/user"
)

func newTestEcho(h *Handler, uid string) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	asUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid != "" {
				c.Set("user_id", uid)
			}
			return next(c)
		}
	}
	e.GET("/properties", h.ListProperties)
	e.GET("/properties/:id", h.GetProperty)
	e.POST("/properties/add", h.CreateProperty, asUser)
	return e
}

func multipartBody(t *testing.T, fields map[string]string, files ...string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("img"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func formFields() map[string]string {
	in := validInput()
	return map[string]string{
		"title": in.Title, "type": in.Type, "description": in.Description,
		"price": in.Price, "squareFeet": in.SquareFeet, "bedrooms": in.Bedrooms,
		"bathrooms": in.Bathrooms, "lat": in.Lat, "lng": in.Lng,
		"address": in.Address, "city": in.City, "state": in.State,
	}
}

func TestCreatePropertyHandler(t *testing.T) {
	owner := &user.User{ID: "u1", Name: "Asha Rao", Email: "asha@example.com"}
	svc, _, _ := newTestService(owner)
	e := newTestEcho(&Handler{Svc: svc}, "u1")

	body, ct := multipartBody(t, formFields(), "front.jpg")
	req := httptest.NewRequest(http.MethodPost, "/properties/add", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Message  string  `json:"message"`
		Property Listing `json:"property"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Property added successfully", resp.Message)
	assert.Equal(t, "Sea-facing 2BHK", resp.Property.Title)
	assert.Equal(t, []string{"/uploads/1-front.jpg"}, resp.Property.Images)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/properties", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Asha Rao", views[0].OwnerName)
	assert.Equal(t, "Mumbai", views[0].Location.City)
}

func TestCreatePropertyHandlerValidation(t *testing.T) {
	svc, repo, _ := newTestService()
	e := newTestEcho(&Handler{Svc: svc}, "u1")

	fields := formFields()
	delete(fields, "title")
	body, ct := multipartBody(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/properties/add", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
	assert.Empty(t, repo.items)
}

func TestCreatePropertyHandlerRequiresUser(t *testing.T) {
	svc, _, _ := newTestService()
	e := newTestEcho(&Handler{Svc: svc}, "")

	body, ct := multipartBody(t, formFields())
	req := httptest.NewRequest(http.MethodPost, "/properties/add", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListPropertiesHandlerFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.listErr = assert.AnError
	e := newTestEcho(&Handler{Svc: svc}, "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/properties", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch properties", body["message"])
	assert.True(t, strings.Contains(body["error"], "assert.AnError"))
}

func TestGetPropertyNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	e := newTestEcho(&Handler{Svc: svc}, "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/properties/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"property not found"}`, rec.Body.String())
}
