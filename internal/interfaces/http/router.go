package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-valuacion/internal/application/dto"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName   string
	Valuation ValuationRunner
	Summary   repository.SummaryRepository // opcional; sin BD no se expone la consulta por corrida
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: deps.AppName})
	})

	api := app.Group("/api")

	valuations := api.Group("/valuations")
	valuationHandler := NewValuationHandler(deps.Valuation, deps.Summary)
	valuations.Post("/", valuationHandler.Create)
	if deps.Summary != nil {
		valuations.Get("/latest", valuationHandler.GetLatest)
		valuations.Get("/:runId", valuationHandler.GetRun)
	}
}
