package services

import (
	"context"
	"fmt"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/registry"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
)

type RegistryServiceInterface interface {
	// CreateProject provisions the registry project for a study. created
	// is false when a credential already exists and nothing was done.
	CreateProject(ctx context.Context, study *models.Study, username string) (created bool, err error)
	// Credential returns nil, nil when the study has no registry link.
	Credential(ctx context.Context, studyID string) (*models.RegistryCredential, error)
	// ResolveURL returns the study's registry endpoint override, falling
	// back to the configured global endpoint.
	ResolveURL(ctx context.Context, studyID string) string
}

type RegistryService struct {
	conf   *structures.Config
	store  providers.StoreInterface
	client registry.ClientInterface
	logger providers.Logger
}

func NewRegistryService(conf *structures.Config, store providers.StoreInterface, client registry.ClientInterface, logger providers.Logger) RegistryServiceInterface {
	return &RegistryService{conf: conf, store: store, client: client, logger: logger}
}

func (s *RegistryService) Credential(ctx context.Context, studyID string) (*models.RegistryCredential, error) {
	doc, err := s.store.FindOne(ctx, providers.CollectionKeys, providers.Doc{"study_id": studyID}, nil)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	apiKey, _ := doc["api_key"].(string)
	return &models.RegistryCredential{StudyID: studyID, APIKey: apiKey}, nil
}

func (s *RegistryService) ResolveURL(ctx context.Context, studyID string) string {
	doc, err := s.store.FindOne(ctx, providers.CollectionStudies,
		providers.Doc{"properties.study_id": studyID},
		providers.Doc{"timestamp": -1})
	if err != nil || doc == nil {
		return s.conf.Registry.URL
	}
	if props, ok := doc["properties"].(map[string]any); ok {
		if override, ok := props["redcap_server_api_url"].(string); ok && override != "" {
			return override
		}
	}
	return s.conf.Registry.URL
}

// CreateProject is idempotent on the keys collection: an existing
// credential short-circuits before any registry traffic. This check is
// independent of StudyService's test-prefix dedupe on studies; the two
// must not be conflated.
func (s *RegistryService) CreateProject(ctx context.Context, study *models.Study, username string) (bool, error) {
	sid := study.Properties.StudyID

	cred, err := s.Credential(ctx, sid)
	if err != nil {
		return false, err
	}
	if cred != nil {
		s.logger.Infof(providers.TypePost, "Registry project already exists for study '%s'", sid)
		return false, nil
	}

	apiURL := s.ResolveURL(ctx, sid)
	token, err := s.client.CreateProject(ctx, apiURL, registry.ProjectDefinition{
		ProjectTitle:               study.Properties.StudyName,
		Purpose:                    "2",
		IsLongitudinal:             "1",
		SurveysEnabled:             "1",
		RecordAutonumberingEnabled: "0",
		ProjectNotes:               study.Properties.Instructions,
	})
	if err != nil {
		return false, err
	}

	// Persist before the import calls: a crash between project creation
	// and credential persistence must not strand an un-recorded token.
	// The unique index on keys.study_id serializes concurrent creates.
	err = s.store.ReplaceOne(ctx, providers.CollectionKeys,
		providers.Doc{"study_id": sid},
		providers.Doc{"study_id": sid, "api_key": token}, true)
	if err != nil {
		return false, fmt.Errorf("persist credential for study '%s': %w", sid, err)
	}
	s.logger.Infof(providers.TypePost, "Registry project created for study '%s'", sid)

	// The three import calls are sequential and not retried here; a
	// failure leaves the credential persisted and the project partially
	// configured, surfaced as PartialProvisioningError.
	if err := s.client.ImportMetadata(ctx, apiURL, token, registry.Flatten(study)); err != nil {
		return true, &PartialProvisioningError{StudyID: sid, Step: registry.ContentMetadata, Err: err}
	}
	if err := s.client.ImportRepeatingForms(ctx, apiURL, token, registry.RepeatingForms(study)); err != nil {
		return true, &PartialProvisioningError{StudyID: sid, Step: registry.ContentRepeatingForms, Err: err}
	}
	if err := s.client.ImportUser(ctx, apiURL, token, username); err != nil {
		return true, &PartialProvisioningError{StudyID: sid, Step: registry.ContentUser, Err: err}
	}

	return true, nil
}
