package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
)

type RegistryController struct {
	logger  providers.Logger
	service services.RegistryServiceInterface
}

func NewRegistryController(logger providers.Logger, service services.RegistryServiceInterface) *RegistryController {
	return &RegistryController{
		logger:  logger,
		service: service,
	}
}

// CreateProject provisions a registry project for the posted study and
// grants the named user access to it. Posting the same study twice is
// safe, the second call reports the existing project.
func (rc *RegistryController) CreateProject(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

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

	created, err := rc.service.CreateProject(r.Context(), study, username)
	if err != nil {
		rc.logger.Errorf(providers.TypePost,
			"Project provisioning failed for study '%s': %s", study.Properties.StudyID, err)
		writeError(w, err)
		return
	}

	if created {
		writeJSON(w, http.StatusCreated, map[string]string{
			"message": fmt.Sprintf("Project created for study '%s'", study.Properties.StudyID),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Project already exists for study '%s'", study.Properties.StudyID),
	})
}

func (rc *RegistryController) Key(w http.ResponseWriter, r *http.Request) {
	studyID := r.PathValue("study_id")

	cred, err := rc.service.Credential(r.Context(), studyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if cred == nil {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("No API key stored for study '%s'", studyID))
		return
	}
	writeJSON(w, http.StatusOK, cred)
}
