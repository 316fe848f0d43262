package internal

import (
	"net/http"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/controllers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
)

func InitRoutes(studyController *controllers.StudyController, responseController *controllers.ResponseController, registryController *controllers.RegistryController, userController *controllers.UserController, logController *controllers.LogController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/api/v2/studies", http.HandlerFunc(studyController.Create))
	routers.Get("/api/v2/studies/all/{study_id}", http.HandlerFunc(studyController.AllVersions))
	routers.Get("/api/v2/studies/{study_id}", http.HandlerFunc(studyController.Latest))

	routers.Post("/api/v2/response", http.HandlerFunc(responseController.Accept))
	routers.Post("/api/v2/response/replay/{study_id}", http.HandlerFunc(responseController.Replay))
	routers.Get("/api/v2/response/{study_id}/{user_id}", http.HandlerFunc(responseController.Combined))

	routers.Post("/api/v2/project/{username}", http.HandlerFunc(registryController.CreateProject))
	routers.Get("/api/v2/keys/{study_id}", http.HandlerFunc(registryController.Key))

	routers.Post("/api/v2/log", http.HandlerFunc(logController.Save))
	routers.Get("/api/v2/users/me", http.HandlerFunc(userController.Me))

	return routers
}
