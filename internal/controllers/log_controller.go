package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
)

type LogController struct {
	logger  providers.Logger
	service services.LogServiceInterface
}

func NewLogController(logger providers.Logger, service services.LogServiceInterface) *LogController {
	return &LogController{
		logger:  logger,
		service: service,
	}
}

func (lc *LogController) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var entry models.LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeDetail(w, http.StatusBadRequest, "Bad Request")
		return
	}

	if err := lc.service.Save(r.Context(), &entry); err != nil {
		lc.logger.Errorf(providers.TypePost, "Log persist failed: %s", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
