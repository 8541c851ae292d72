package dto

import "github.com/spec-kit/backoffice-service/internal/report"

// GenerateReportsResponse is the 202 envelope for batch generation.
type GenerateReportsResponse struct {
	Message          string   `json:"message"`
	Status           string   `json:"status"`
	ReportsRequested []string `json:"reportsRequested"`
	Timestamp        string   `json:"timestamp"`
	CheckStatusAt    string   `json:"checkStatusAt"`
}

// GenerateReportResponse is the 202 envelope for one report.
type GenerateReportResponse struct {
	Message       string `json:"message"`
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	CheckStatusAt string `json:"checkStatusAt"`
}

// InvalidReportResponse rejects unknown report names.
type InvalidReportResponse struct {
	Error      string   `json:"error"`
	ValidTypes []string `json:"validTypes"`
}

// ReportStatusResponse pairs a state with its metrics, if any.
type ReportStatusResponse struct {
	State   report.State    `json:"state"`
	Metrics *report.Metrics `json:"metrics"`
}

// AllReportsResponse is the detailed status payload.
type AllReportsResponse struct {
	States  map[string]report.State   `json:"states"`
	Metrics map[string]report.Metrics `json:"metrics"`
}
