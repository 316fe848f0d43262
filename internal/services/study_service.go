package services

import (
	"context"
	"strings"
	"time"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
)

// testStudyPrefix exempts throwaway studies from idempotent create, so
// integration runs can insert fresh snapshots under a reused id.
const testStudyPrefix = "test"

type StudyServiceInterface interface {
	Create(ctx context.Context, study *models.Study) (permalink string, created bool, err error)
	Latest(ctx context.Context, id string) (providers.Doc, error)
	AllVersions(ctx context.Context, studyID string) ([]providers.Doc, error)
}

type StudyService struct {
	store  providers.StoreInterface
	logger providers.Logger
}

func NewStudyService(store providers.StoreInterface, logger providers.Logger) StudyServiceInterface {
	return &StudyService{store: store, logger: logger}
}

// Create inserts a new immutable snapshot. When a study with the same
// study_id already exists and the id is not test-prefixed, creation is a
// no-op returning the existing permalink. This check reads the studies
// collection; it is independent of the registry credential check in
// RegistryService, which reads keys.
func (s *StudyService) Create(ctx context.Context, study *models.Study) (string, bool, error) {
	sid := study.Properties.StudyID

	existing, err := s.store.FindOne(ctx, providers.CollectionStudies,
		providers.Doc{"properties.study_id": sid}, nil)
	if err != nil {
		return "", false, err
	}
	if existing != nil && !strings.HasPrefix(sid, testStudyPrefix) {
		permalink, _ := existing["_id"].(string)
		s.logger.Infof(providers.TypePost, "Study '%s' already exists, reusing %s", sid, permalink)
		return permalink, false, nil
	}

	study.ID = ""
	study.Type = "study"
	study.Timestamp = time.Now().UnixMilli()

	doc, err := models.ToDoc(study)
	if err != nil {
		return "", false, err
	}
	delete(doc, "_id")

	permalink, err := s.store.InsertOne(ctx, providers.CollectionStudies, doc)
	if err != nil {
		return "", false, err
	}
	s.logger.Infof(providers.TypePost, "Created study '%s' snapshot %s", sid, permalink)
	return permalink, true, nil
}

// Latest resolves either a permalink or a study_id to the newest snapshot.
func (s *StudyService) Latest(ctx context.Context, id string) (providers.Doc, error) {
	filter := providers.Doc{"$or": []providers.Doc{
		{"_id": id},
		{"properties.study_id": id},
	}}

	doc, err := s.store.FindOne(ctx, providers.CollectionStudies, filter,
		providers.Doc{"timestamp": -1})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *StudyService) AllVersions(ctx context.Context, studyID string) ([]providers.Doc, error) {
	return s.store.Find(ctx, providers.CollectionStudies,
		providers.Doc{"properties.study_id": studyID},
		providers.Doc{"timestamp": -1}, 100)
}
