package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/auth"
	"github.com/sudo-init-do/propnest/internal/user"
)

func newTestEcho(tokens *auth.Tokens) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	whoami := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id"), "role": c.Get("role")})
	}
	e.GET("/any", whoami, JWT(tokens))
	e.POST("/owners", whoami, JWT(tokens), RequireRoles("owner"))
	return e
}

func request(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWT(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	e := newTestEcho(tokens)

	buyer, err := tokens.Issue(&user.User{ID: "u1", Role: user.RoleBuyer})
	require.NoError(t, err)

	rec := request(e, http.MethodGet, "/any", buyer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"u1","role":"buyer"}`, rec.Body.String())

	rec = request(e, http.MethodGet, "/any", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(e, http.MethodGet, "/any", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"invalid or expired token"}`, rec.Body.String())

	other := auth.NewTokens("other-secret", time.Hour)
	forged, err := other.Issue(&user.User{ID: "u1", Role: user.RoleOwner})
	require.NoError(t, err)
	rec = request(e, http.MethodGet, "/any", forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	e := newTestEcho(tokens)

	buyer, err := tokens.Issue(&user.User{ID: "u1", Role: user.RoleBuyer})
	require.NoError(t, err)
	owner, err := tokens.Issue(&user.User{ID: "u2", Role: user.RoleOwner})
	require.NoError(t, err)

	rec := request(e, http.MethodPost, "/owners", buyer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(e, http.MethodPost, "/owners", owner)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodPost, "/owners", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolesWithoutRole(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRoles("owner"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"role missing"}`, rec.Body.String())
}
