package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/dto"
	"github.com/spec-kit/backoffice-service/internal/report"
)

// ReportsHandler manages report generation and status endpoints.
type ReportsHandler struct {
	engine *report.Engine
}

// NewReportsHandler constructs handler.
func NewReportsHandler(engine *report.Engine) *ReportsHandler {
	return &ReportsHandler{engine: engine}
}

// GetReportStatus GET /reports. Keys are the output file names.
func (h *ReportsHandler) GetReportStatus(c *fiber.Ctx) error {
	response := fiber.Map{}
	for _, name := range report.Names() {
		response[report.OutputFile(name)] = h.engine.State(name)
	}
	return c.JSON(response)
}

// GetDetailedStatus GET /reports/status.
func (h *ReportsHandler) GetDetailedStatus(c *fiber.Ctx) error {
	states, metrics := h.engine.AllStates()
	return c.JSON(dto.AllReportsResponse{States: states, Metrics: metrics})
}

// GetSpecificStatus GET /reports/status/:reportType.
func (h *ReportsHandler) GetSpecificStatus(c *fiber.Ctx) error {
	name := c.Params("reportType")
	response := dto.ReportStatusResponse{State: h.engine.State(name)}
	if metrics, ok := h.engine.Metrics(name); ok {
		response.Metrics = &metrics
	}
	return c.JSON(response)
}

// GenerateReports POST /reports?reports=a,b,c (default all).
func (h *ReportsHandler) GenerateReports(c *fiber.Ctx) error {
	requested := report.Names()
	if query := c.Query("reports"); query != "" {
		requested = strings.Split(query, ",")
	}

	for _, name := range requested {
		if report.Valid(name) {
			_ = h.engine.Run(name)
		}
	}

	return c.Status(http.StatusAccepted).JSON(dto.GenerateReportsResponse{
		Message:          "Report generation started",
		Status:           "processing",
		ReportsRequested: requested,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		CheckStatusAt:    "/api/v1/reports/status",
	})
}

// GenerateSpecificReport POST /reports/:reportType.
func (h *ReportsHandler) GenerateSpecificReport(c *fiber.Ctx) error {
	name := c.Params("reportType")
	if !report.Valid(name) {
		return c.Status(http.StatusBadRequest).JSON(dto.InvalidReportResponse{
			Error:      "Invalid report type",
			ValidTypes: report.Names(),
		})
	}

	if err := h.engine.Run(name); err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(dto.GenerateReportResponse{
		Message:       name + " report generation started",
		Status:        "processing",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CheckStatusAt: "/api/v1/reports/status/" + name,
	})
}
