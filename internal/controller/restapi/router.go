package restapi

import (
	"github.com/enrollhq/enroll/config"
	v1 "github.com/enrollhq/enroll/internal/controller/restapi/v1"
	"github.com/enrollhq/enroll/internal/usecase"
	"github.com/enrollhq/enroll/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// @title Enrollment service
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(
	app *fiber.App,
	cfg *config.Config,
	lc usecase.LifecycleUseCase,
	dir usecase.DirectoryUseCase,
	dsp usecase.DispatchUseCase,
	l logger.Interface,
) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewEntityRoutes(apiV1Group, lc, dir, dsp, l)
	}
}
