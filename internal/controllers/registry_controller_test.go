package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/registry"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRegistryService struct {
	created    bool
	createErr  error
	credential *models.RegistryCredential
	usernames  []string
}

func (m *mockRegistryService) CreateProject(_ context.Context, _ *models.Study, username string) (bool, error) {
	m.usernames = append(m.usernames, username)
	return m.created, m.createErr
}

func (m *mockRegistryService) Credential(_ context.Context, _ string) (*models.RegistryCredential, error) {
	return m.credential, nil
}

func (m *mockRegistryService) ResolveURL(_ context.Context, _ string) string {
	return "https://global.example.org/api/"
}

func postProject(t *testing.T, rc *RegistryController, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v2/project/researcher", strings.NewReader(body))
	req.SetPathValue("username", "researcher")
	rr := httptest.NewRecorder()
	rc.CreateProject(rr, req)
	return rr
}

func TestCreateProject_New(t *testing.T) {
	svc := &mockRegistryService{created: true}
	rc := NewRegistryController(&mockLogger{}, svc)

	rr := postProject(t, rc, minimalStudyJSON)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []string{"researcher"}, svc.usernames)
}

func TestCreateProject_AlreadyExists(t *testing.T) {
	svc := &mockRegistryService{created: false}
	rc := NewRegistryController(&mockLogger{}, svc)

	rr := postProject(t, rc, minimalStudyJSON)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateProject_InvalidStudy(t *testing.T) {
	svc := &mockRegistryService{}
	rc := NewRegistryController(&mockLogger{}, svc)

	rr := postProject(t, rc, `{"_type": "poll"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.usernames)
}

func TestCreateProject_PartialProvisioning(t *testing.T) {
	svc := &mockRegistryService{
		created:   true,
		createErr: &services.PartialProvisioningError{StudyID: "sleep_2026", Step: registry.ContentMetadata, Err: assert.AnError},
	}
	rc := NewRegistryController(&mockLogger{}, svc)

	rr := postProject(t, rc, minimalStudyJSON)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "metadata")
}

func TestCreateProject_RegistryUnavailable(t *testing.T) {
	svc := &mockRegistryService{
		createErr: &registry.UnavailableError{Content: registry.ContentProject, Err: assert.AnError},
	}
	rc := NewRegistryController(&mockLogger{}, svc)

	rr := postProject(t, rc, minimalStudyJSON)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGetKey_Found(t *testing.T) {
	svc := &mockRegistryService{credential: &models.RegistryCredential{StudyID: "sleep_2026", APIKey: "tok-1"}}
	rc := NewRegistryController(&mockLogger{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/keys/sleep_2026", nil)
	req.SetPathValue("study_id", "sleep_2026")
	rr := httptest.NewRecorder()
	rc.Key(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "tok-1", body["api_key"])
}

func TestGetKey_NotFound(t *testing.T) {
	rc := NewRegistryController(&mockLogger{}, &mockRegistryService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/keys/none", nil)
	req.SetPathValue("study_id", "none")
	rr := httptest.NewRecorder()
	rc.Key(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
