package services

import (
	"context"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
)

type LogServiceInterface interface {
	Save(ctx context.Context, entry *models.LogEntry) error
}

type LogService struct {
	store providers.StoreInterface
}

func NewLogService(store providers.StoreInterface) LogServiceInterface {
	return &LogService{store: store}
}

func (s *LogService) Save(ctx context.Context, entry *models.LogEntry) error {
	doc, err := models.ToDoc(entry)
	if err != nil {
		return err
	}
	_, err = s.store.InsertOne(ctx, providers.CollectionLogs, doc)
	return err
}
