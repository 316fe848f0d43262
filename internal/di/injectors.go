//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/archive"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/controllers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/registry"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,
		providers.NewStoreProvider,

		archive.NewZstdCompressor,
		archive.NewArchive,
		registry.NewClient,

		services.NewStudyService,
		services.NewRegistryService,
		services.NewDeliveryService,
		services.NewUserService,
		services.NewLogService,
		services.NewScheduler,

		controllers.NewStudyController,
		controllers.NewResponseController,
		controllers.NewRegistryController,
		controllers.NewUserController,
		controllers.NewLogController,
		controllers.NewHealthController,

		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
