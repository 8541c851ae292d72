package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Reports *handlers.ReportsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets", cfg.Tickets.CreateTicket)

	reports := api.Group("/reports")
	reports.Get("/", cfg.Reports.GetReportStatus)
	reports.Get("/status", cfg.Reports.GetDetailedStatus)
	reports.Get("/status/:reportType", cfg.Reports.GetSpecificStatus)
	reports.Post("/", cfg.Reports.GenerateReports)
	reports.Post("/:reportType", cfg.Reports.GenerateSpecificReport)
}
