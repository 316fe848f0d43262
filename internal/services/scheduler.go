package services

import (
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/archive"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
	"github.com/roylee0704/gron"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Persist() error
}

// Scheduler runs the periodic background jobs: flushing the raw-response
// archive to disk and logging a delivery heartbeat.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	delivery DeliveryServiceInterface
	archiver archive.ArchiverInterface
	cron     *gron.Cron
}

func NewScheduler(config *structures.Config, logger providers.Logger, delivery DeliveryServiceInterface, archiver archive.ArchiverInterface) SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		delivery: delivery,
		archiver: archiver,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Archive.FlushInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		if err := s.archiver.Flush(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while flushing archive: %s", err)
			return
		}

		stats := s.delivery.Stats()
		s.logger.Infof(providers.TypeApp,
			"Delivery stats: accepted=%d forwarded=%d skipped=%d failed=%d dropped=%d queued=%d",
			stats.Accepted, stats.Forwarded, stats.Skipped, stats.Failed, stats.Dropped, stats.QueueDepth)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Persist() error {
	s.logger.Infof(providers.TypeApp, "Flushing archive to disk...")
	if err := s.archiver.Close(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing archive: %s", err)
		return err
	}
	return nil
}
