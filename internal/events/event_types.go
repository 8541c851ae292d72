package events

import (
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketsResolved EventType = "tickets_resolved"
	EventReportStarted   EventType = "report_started"
	EventReportCompleted EventType = "report_completed"
	EventReportFailed    EventType = "report_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID   string                `json:"ticket_id"`
	TicketType domain.TicketType     `json:"ticket_type"`
	Category   domain.TicketCategory `json:"category"`
	CompanyID  string                `json:"company_id"`
	AssigneeID string                `json:"assignee_id"`
}

// TicketsResolvedPayload describes a strike-off cascade.
type TicketsResolvedPayload struct {
	CompanyID   string   `json:"company_id"`
	ResolvedIDs []string `json:"resolved_ids"`
	CauseID     string   `json:"cause_id"`
}

// ReportStartedPayload payload.
type ReportStartedPayload struct {
	Report string `json:"report"`
}

// ReportCompletedPayload payload.
type ReportCompletedPayload struct {
	Report           string  `json:"report"`
	DurationSeconds  float64 `json:"duration_seconds"`
	RecordsProcessed int     `json:"records_processed"`
	OutputFile       string  `json:"output_file"`
}

// ReportFailedPayload payload.
type ReportFailedPayload struct {
	Report string `json:"report"`
	Error  string `json:"error"`
}
