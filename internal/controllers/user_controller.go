package controllers

import (
	"errors"
	"net/http"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
)

type UserController struct {
	logger  providers.Logger
	service services.UserServiceInterface
}

func NewUserController(logger providers.Logger, service services.UserServiceInterface) *UserController {
	return &UserController{
		logger:  logger,
		service: service,
	}
}

func (uc *UserController) Me(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		uc.unauthorized(w)
		return
	}

	user, err := uc.service.Authenticate(r.Context(), email, password)
	if errors.Is(err, services.ErrNotFound) {
		uc.unauthorized(w)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": user.Email})
}

func (uc *UserController) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="designer"`)
	writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
}
