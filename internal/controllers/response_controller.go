package controllers

import (
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
)

type ResponseController struct {
	logger   providers.Logger
	delivery services.DeliveryServiceInterface
}

func NewResponseController(logger providers.Logger, delivery services.DeliveryServiceInterface) *ResponseController {
	return &ResponseController{
		logger:   logger,
		delivery: delivery,
	}
}

// Accept ingests one form-encoded module response. A 202 means the
// response is stored durably; registry forwarding happens in the
// background and its outcome is not part of the reply.
func (rc *ResponseController) Accept(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseMultipartForm(maxRequestBodySize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeDetail(w, http.StatusBadRequest, "Bad Request")
		return
	}

	entry, err := parseResponseForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := rc.delivery.Accept(r.Context(), entry); err != nil {
		rc.logger.Errorf(providers.TypePost,
			"Response persist failed, study_id=%s user_id=%s: %s", entry.StudyID, entry.UserID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

func parseResponseForm(r *http.Request) (*models.ResponseEntry, error) {
	entry := &models.ResponseEntry{
		DataType:     r.FormValue("data_type"),
		UserID:       r.FormValue("user_id"),
		StudyID:      r.FormValue("study_id"),
		Platform:     r.FormValue("platform"),
		ModuleID:     r.FormValue("module_id"),
		ModuleName:   r.FormValue("module_name"),
		ResponseTime: r.FormValue("response_time"),
		AlertTime:    r.FormValue("alert_time"),
	}
	if entry.StudyID == "" || entry.UserID == "" || entry.ModuleID == "" {
		return nil, &models.ValidationError{Path: "form", Reason: "study_id, user_id and module_id are required"}
	}

	if v := r.FormValue("module_index"); v != "" {
		idx, err := strconv.Atoi(v)
		if err != nil {
			return nil, &models.ValidationError{Path: "module_index", Reason: "not an integer"}
		}
		entry.ModuleIndex = idx
	}
	if v := r.FormValue("response_time_in_ms"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &models.ValidationError{Path: "response_time_in_ms", Reason: "not an integer"}
		}
		entry.ResponseTimeInMS = ms
	}
	if r.Form.Has("responses") {
		responses := r.FormValue("responses")
		entry.Responses = &responses
	}
	if v := r.FormValue("entries"); v != "" {
		if err := json.Unmarshal([]byte(v), &entry.Entries); err != nil {
			return nil, &models.ValidationError{Path: "entries", Reason: "not a JSON array of integers"}
		}
	}
	return entry, nil
}

// Combined returns the local backup next to the registry's live view of
// the same participant. The registry half is best-effort and comes back
// null when the registry cannot answer.
func (rc *ResponseController) Combined(w http.ResponseWriter, r *http.Request) {
	studyID := r.PathValue("study_id")
	userID := r.PathValue("user_id")

	combined, err := rc.delivery.Combined(r.Context(), studyID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, combined)
}

func (rc *ResponseController) Replay(w http.ResponseWriter, r *http.Request) {
	studyID := r.PathValue("study_id")

	count, err := rc.delivery.Replay(r.Context(), studyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"queued": count})
}
