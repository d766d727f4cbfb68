package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/propnest/internal/apperr"
)

type stubRepo struct {
	Repository
	users map[string]*User
}

func (s stubRepo) FindByID(_ context.Context, id string) (*User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.True(t, RoleBuyer.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestGetPublicProfile(t *testing.T) {
	repo := stubRepo{users: map[string]*User{
		"u1": {ID: "u1", Name: "Asha Rao", Email: "asha@example.com", Role: RoleOwner, CreatedAt: time.Now()},
	}}
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	e.GET("/users/:id/profile", (&Handler{Repo: repo}).GetPublicProfile)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/u1/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asha Rao")
	assert.NotContains(t, rec.Body.String(), "asha@example.com")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/nobody/profile", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
