package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/registry"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/schedule"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps the service error taxonomy onto HTTP statuses.
// Validation failures carry the reason verbatim so the caller can fix
// the submitted document.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var scheduleErr *schedule.InvalidScheduleError
	var partialErr *services.PartialProvisioningError
	var rejectedErr *registry.RejectedError
	var unavailableErr *registry.UnavailableError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &scheduleErr):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Record not found")
	case errors.As(err, &partialErr):
		writeDetail(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &rejectedErr), errors.As(err, &unavailableErr):
		writeDetail(w, http.StatusBadGateway, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
