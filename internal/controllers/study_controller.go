package controllers

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
)

const maxRequestBodySize = 5 << 20 // 5 MB, study documents carry inline text assets

type StudyController struct {
	logger  providers.Logger
	service services.StudyServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
}

func NewStudyController(logger providers.Logger, service services.StudyServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *StudyController {
	return &StudyController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
	}
}

func (sc *StudyController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := sc.cache.Get(cacheKey); ok {
		sc.metrics.IncCacheHits()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	sc.metrics.IncCacheMisses()

	result, err := compute()
	if err != nil {
		writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (sc *StudyController) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Bad Request")
		return
	}

	study, err := models.ParseStudy(body)
	if err != nil {
		writeError(w, err)
		return
	}

	permalink, created, err := sc.service.Create(r.Context(), study)
	if err != nil {
		sc.logger.Errorf(providers.TypePost, "Study upload failed for '%s': %s", study.Properties.StudyID, err)
		writeError(w, err)
		return
	}

	// cached reads must not serve the pre-upload version
	sc.cache.Del("study:latest:" + study.Properties.StudyID)
	sc.cache.Del("study:all:" + study.Properties.StudyID)

	status := http.StatusOK
	message := "Study already exists, permalink reused"
	if created {
		status = http.StatusCreated
		message = "Study created"
	}
	writeJSON(w, status, map[string]string{
		"message":   message,
		"permalink": permalink,
	})
}

func (sc *StudyController) Latest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("study_id")
	sc.serveFromCacheOrCompute(w, "study:latest:"+id, func() (any, error) {
		return sc.service.Latest(r.Context(), id)
	})
}

func (sc *StudyController) AllVersions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("study_id")
	sc.serveFromCacheOrCompute(w, "study:all:"+id, func() (any, error) {
		return sc.service.AllVersions(r.Context(), id)
	})
}
