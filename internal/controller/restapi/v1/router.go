package v1

import (
	"github.com/enrollhq/enroll/internal/usecase"
	"github.com/enrollhq/enroll/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewEntityRoutes(
	apiV1Group fiber.Router,
	lc usecase.LifecycleUseCase,
	dir usecase.DirectoryUseCase,
	dsp usecase.DispatchUseCase,
	l logger.Interface,
) {
	r := &V1{lc: lc, dir: dir, dsp: dsp, logger: l}

	apiV1Group.Use(principalMiddleware())

	{
		apiV1Group.Post("/entities/transition", r.transition)
		apiV1Group.Get("/entities", r.listEntities)
		apiV1Group.Get("/entities/:status/:username/image", r.getEntityImage)
		apiV1Group.Delete("/entities/:username", r.deleteEntity)

		apiV1Group.Post("/status/dispatch", r.dispatchStatus)
	}
}
