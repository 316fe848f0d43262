package services

import (
	"context"
	"fmt"
	"maps"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/archive"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/registry"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
	"go.uber.org/atomic"
)

// CombinedResponse pairs the locally backed-up record with the registry's
// live view. RedcapResponse stays null when the registry is unreachable
// or holds no matching record.
type CombinedResponse struct {
	MongoDBResponse providers.Doc  `json:"mongodb_response"`
	RedcapResponse  map[string]any `json:"redcap_response"`
}

type DeliveryStats struct {
	Accepted   int64
	Forwarded  int64
	Skipped    int64
	Failed     int64
	Dropped    int64
	QueueDepth int
}

type DeliveryServiceInterface interface {
	// Accept persists the response durably; forwarding is scheduled as
	// best-effort background work and never affects the result.
	Accept(ctx context.Context, rsp *models.ResponseEntry) error
	Combined(ctx context.Context, studyID, userID string) (*CombinedResponse, error)
	// Replay re-enqueues backed-up responses of one study for forwarding.
	Replay(ctx context.Context, studyID string) (int, error)
	Start()
	Stop(ctx context.Context)
	Stats() DeliveryStats
}

type DeliveryService struct {
	conf     *structures.Config
	store    providers.StoreInterface
	registry RegistryServiceInterface
	client   registry.ClientInterface
	archiver archive.ArchiverInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface

	queue chan *models.ResponseEntry
	wg    sync.WaitGroup

	accepted  atomic.Int64
	forwarded atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

func NewDeliveryService(conf *structures.Config, store providers.StoreInterface, registrySvc RegistryServiceInterface, client registry.ClientInterface, archiver archive.ArchiverInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) DeliveryServiceInterface {
	return &DeliveryService{
		conf:     conf,
		store:    store,
		registry: registrySvc,
		client:   client,
		archiver: archiver,
		logger:   logger,
		metrics:  metrics,
		queue:    make(chan *models.ResponseEntry, conf.Delivery.QueueSize),
	}
}

func (s *DeliveryService) Start() {
	for i := 0; i < s.conf.Delivery.Workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// Stop drains the queue until ctx expires; items still queued afterwards
// stay recoverable via Replay.
func (s *DeliveryService) Stop(ctx context.Context) {
	close(s.queue)
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warnf(providers.TypeApp, "Delivery queue not drained before shutdown deadline")
	}
}

func (s *DeliveryService) Accept(ctx context.Context, rsp *models.ResponseEntry) error {
	doc, err := models.ToDoc(rsp)
	if err != nil {
		return err
	}

	// Local durability is the strong guarantee; everything past this
	// insert is best-effort.
	if _, err := s.store.InsertOne(ctx, providers.CollectionResponsesBackup, doc); err != nil {
		return err
	}
	if _, err := s.store.InsertOne(ctx, providers.CollectionResponses, doc); err != nil {
		return err
	}
	s.accepted.Inc()
	s.metrics.IncDelivery("accepted")

	s.enqueue(rsp)
	return nil
}

func (s *DeliveryService) enqueue(rsp *models.ResponseEntry) {
	select {
	case s.queue <- rsp:
		s.metrics.SetQueueDepth(len(s.queue))
	default:
		s.dropped.Inc()
		s.metrics.IncDelivery("dropped")
		s.logger.Warnf(providers.TypePost,
			"Delivery queue full, study_id=%s user_id=%s module_id=%s left for replay",
			rsp.StudyID, rsp.UserID, rsp.ModuleID)
	}
}

func (s *DeliveryService) worker() {
	defer s.wg.Done()
	for rsp := range s.queue {
		s.forward(rsp)
		s.metrics.SetQueueDepth(len(s.queue))
	}
}

// forward pushes one response to the registry. All failures end here:
// the caller's accept is already committed, so errors are logged with
// replay context and swallowed.
func (s *DeliveryService) forward(rsp *models.ResponseEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.conf.Registry.ReadTimeout)
	defer cancel()

	cred, err := s.registry.Credential(ctx, rsp.StudyID)
	if err != nil {
		s.fail(rsp, err)
		return
	}
	if cred == nil {
		// a study without a registry link is not an error
		s.skipped.Inc()
		s.metrics.IncDelivery("skipped")
		return
	}

	record, err := BuildRecord(rsp)
	if err != nil {
		s.fail(rsp, err)
		return
	}

	// forensic copy of the flat record plus the serialized inbound
	// response, stored regardless of forward success
	serialized, err := json.Marshal(rsp)
	if err != nil {
		s.fail(rsp, err)
		return
	}
	raw := maps.Clone(record)
	raw["raw"] = string(serialized)
	if _, err := s.store.InsertOne(ctx, providers.CollectionResponsesBackup, raw); err != nil {
		s.logger.Errorf(providers.TypePost,
			"Raw record backup failed, study_id=%s user_id=%s module_id=%s: %s",
			rsp.StudyID, rsp.UserID, rsp.ModuleID, err)
	}
	s.archiver.Append(rsp.StudyID, serialized)

	apiURL := s.registry.ResolveURL(ctx, rsp.StudyID)
	if err := s.client.ImportRecord(ctx, apiURL, cred.APIKey, record); err != nil {
		s.fail(rsp, err)
		return
	}

	s.forwarded.Inc()
	s.metrics.IncDelivery("forwarded")
}

func (s *DeliveryService) fail(rsp *models.ResponseEntry, err error) {
	s.failed.Inc()
	s.metrics.IncDelivery("failed")
	s.logger.Errorf(providers.TypePost,
		"Registry forward failed, study_id=%s user_id=%s module_id=%s: %s",
		rsp.StudyID, rsp.UserID, rsp.ModuleID, err)
}

// BuildRecord flattens a response into the registry's record shape,
// mirroring the field naming of the metadata import.
func BuildRecord(rsp *models.ResponseEntry) (map[string]any, error) {
	record := map[string]any{
		"field_record_id":          rsp.UserID,
		"redcap_repeat_instrument": registry.FormName(rsp.ModuleID),
		"redcap_repeat_instance":   "new",
		registry.ResponseTimeInMSField(rsp.ModuleIndex): rsp.ResponseTimeInMS,
		registry.ResponseTimeField(rsp.ModuleIndex):     rsp.ResponseTime,
	}

	if rsp.Responses != nil && *rsp.Responses != "" {
		var answers map[string]any
		if err := json.Unmarshal([]byte(*rsp.Responses), &answers); err != nil {
			return nil, fmt.Errorf("responses payload is not a JSON object: %w", err)
		}
		for key, value := range answers {
			record[registry.RecordFieldName(key)] = value
		}
	}
	if len(rsp.Entries) > 0 {
		record[rsp.ModuleID] = rsp.Entries
	}
	return record, nil
}

func (s *DeliveryService) Combined(ctx context.Context, studyID, userID string) (*CombinedResponse, error) {
	backup, err := s.store.FindOne(ctx, providers.CollectionResponsesBackup,
		providers.Doc{"study_id": studyID, "user_id": userID}, nil)
	if err != nil {
		return nil, err
	}
	if backup == nil {
		return nil, ErrNotFound
	}

	combined := &CombinedResponse{MongoDBResponse: backup}

	cred, err := s.registry.Credential(ctx, studyID)
	if err != nil || cred == nil {
		return combined, nil
	}

	apiURL := s.registry.ResolveURL(ctx, studyID)
	records, err := s.client.ExportRecords(ctx, apiURL, cred.APIKey)
	if err != nil {
		// registry unavailability degrades the read, never fails it
		s.logger.Warnf(providers.TypeGet,
			"Registry lookup failed for combined read, study_id=%s user_id=%s: %s",
			studyID, userID, err)
		return combined, nil
	}
	for _, rec := range records {
		if rec["field_record_id"] == userID {
			combined.RedcapResponse = rec
			break
		}
	}
	return combined, nil
}

func (s *DeliveryService) Replay(ctx context.Context, studyID string) (int, error) {
	docs, err := s.store.Find(ctx, providers.CollectionResponsesBackup,
		providers.Doc{"study_id": studyID}, nil, 0)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, doc := range docs {
		b, err := json.Marshal(doc)
		if err != nil {
			continue
		}
		var rsp models.ResponseEntry
		if err := json.Unmarshal(b, &rsp); err != nil || rsp.UserID == "" {
			continue
		}
		s.enqueue(&rsp)
		count++
	}
	s.logger.Infof(providers.TypePost, "Replay queued %d responses for study '%s'", count, studyID)
	return count, nil
}

func (s *DeliveryService) Stats() DeliveryStats {
	return DeliveryStats{
		Accepted:   s.accepted.Load(),
		Forwarded:  s.forwarded.Load(),
		Skipped:    s.skipped.Load(),
		Failed:     s.failed.Load(),
		Dropped:    s.dropped.Load(),
		QueueDepth: len(s.queue),
	}
}
