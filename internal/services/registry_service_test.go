package services

import (
	"context"
	"errors"
	"testing"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/registry"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryTestConf() *structures.Config {
	conf := &structures.Config{}
	conf.Registry.URL = "https://global.example.org/api/"
	return conf
}

func TestCreateProject_ProvisionsAndPersistsCredential(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockRegistryClient{Token: "tok-1"}
	svc := NewRegistryService(registryTestConf(), store, client, &testutil.MockLogger{})

	created, err := svc.CreateProject(context.Background(), newStudy("sleep_2026"), "researcher")
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, client.CreatedProjects, 1)
	def := client.CreatedProjects[0]
	assert.Equal(t, "2", def.Purpose)
	assert.Equal(t, "1", def.IsLongitudinal)
	assert.Equal(t, "1", def.SurveysEnabled)
	assert.Equal(t, "0", def.RecordAutonumberingEnabled)

	assert.Len(t, client.MetadataImports, 1)
	assert.Len(t, client.RepeatingImports, 1)
	assert.Equal(t, []string{"researcher"}, client.UserImports)

	cred, err := svc.Credential(context.Background(), "sleep_2026")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "tok-1", cred.APIKey)
}

func TestCreateProject_IdempotentOnCredential(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockRegistryClient{Token: "tok-1"}
	svc := NewRegistryService(registryTestConf(), store, client, &testutil.MockLogger{})

	ctx := context.Background()
	_, err := svc.CreateProject(ctx, newStudy("sleep_2026"), "researcher")
	require.NoError(t, err)

	created, err := svc.CreateProject(ctx, newStudy("sleep_2026"), "researcher")
	require.NoError(t, err)
	assert.False(t, created)

	// no second round of registry traffic, credential untouched
	assert.Len(t, client.CreatedProjects, 1)
	cred, err := svc.Credential(ctx, "sleep_2026")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", cred.APIKey)
}

func TestCreateProject_PartialProvisioningKeepsCredential(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockRegistryClient{Token: "tok-1", ImportErr: errors.New("metadata rejected")}
	svc := NewRegistryService(registryTestConf(), store, client, &testutil.MockLogger{})

	created, err := svc.CreateProject(context.Background(), newStudy("sleep_2026"), "researcher")
	assert.True(t, created)

	var partial *PartialProvisioningError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "sleep_2026", partial.StudyID)
	assert.Equal(t, registry.ContentMetadata, partial.Step)

	// the token survived: the project exists on the registry side
	cred, credErr := svc.Credential(context.Background(), "sleep_2026")
	require.NoError(t, credErr)
	require.NotNil(t, cred)
	assert.Equal(t, "tok-1", cred.APIKey)
}

func TestCreateProject_RegistryFailureBubblesUp(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockRegistryClient{CreateProjectErr: &registry.UnavailableError{Content: registry.ContentProject, Err: errors.New("refused")}}
	svc := NewRegistryService(registryTestConf(), store, client, &testutil.MockLogger{})

	created, err := svc.CreateProject(context.Background(), newStudy("sleep_2026"), "researcher")
	assert.False(t, created)

	var unavailable *registry.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 0, store.Count(providers.CollectionKeys))
}

func TestCredential_NilWhenAbsent(t *testing.T) {
	svc := NewRegistryService(registryTestConf(), testutil.NewMockStore(), &testutil.MockRegistryClient{}, &testutil.MockLogger{})

	cred, err := svc.Credential(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestResolveURL_FallsBackToConfigured(t *testing.T) {
	svc := NewRegistryService(registryTestConf(), testutil.NewMockStore(), &testutil.MockRegistryClient{}, &testutil.MockLogger{})

	url := svc.ResolveURL(context.Background(), "unknown")
	assert.Equal(t, "https://global.example.org/api/", url)
}

func TestResolveURL_StudyOverrideWins(t *testing.T) {
	store := testutil.NewMockStore()
	_, err := store.InsertOne(context.Background(), providers.CollectionStudies, providers.Doc{
		"timestamp": 1,
		"properties": map[string]any{
			"study_id":              "sleep_2026",
			"redcap_server_api_url": "https://lab.example.org/api/",
		},
	})
	require.NoError(t, err)
	svc := NewRegistryService(registryTestConf(), store, &testutil.MockRegistryClient{}, &testutil.MockLogger{})

	url := svc.ResolveURL(context.Background(), "sleep_2026")
	assert.Equal(t, "https://lab.example.org/api/", url)
}
