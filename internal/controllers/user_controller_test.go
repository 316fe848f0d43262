package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	user *models.User
	err  error
}

func (m *mockUserService) Authenticate(_ context.Context, _, _ string) (*models.User, error) {
	return m.user, m.err
}

func TestMe_ValidCredentials(t *testing.T) {
	uc := NewUserController(&mockLogger{}, &mockUserService{user: &models.User{Email: "researcher@example.org"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/users/me", nil)
	req.SetBasicAuth("researcher@example.org", "hunter2")
	rr := httptest.NewRecorder()
	uc.Me(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "researcher@example.org")
}

func TestMe_WrongCredentials(t *testing.T) {
	uc := NewUserController(&mockLogger{}, &mockUserService{err: services.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/users/me", nil)
	req.SetBasicAuth("researcher@example.org", "wrong")
	rr := httptest.NewRecorder()
	uc.Me(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
}

func TestMe_NoAuthHeader(t *testing.T) {
	uc := NewUserController(&mockLogger{}, &mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/users/me", nil)
	rr := httptest.NewRecorder()
	uc.Me(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
