package domain

import "time"

// TicketType enumerates the supported ticket workflows.
type TicketType string

const (
	TicketTypeManagementReport          TicketType = "managementReport"
	TicketTypeRegistrationAddressChange TicketType = "registrationAddressChange"
	TicketTypeStrikeOff                 TicketType = "strikeOff"
)

// TicketCategory is fully determined by the ticket type.
type TicketCategory string

const (
	TicketCategoryAccounting TicketCategory = "accounting"
	TicketCategoryCorporate  TicketCategory = "corporate"
	TicketCategoryManagement TicketCategory = "management"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusResolved TicketStatus = "resolved"
)

// Ticket is the aggregate for back-office work items. Tickets only ever
// mutate their status; they are never deleted.
type Ticket struct {
	ID         string
	Type       TicketType
	Category   TicketCategory
	CompanyID  string
	AssigneeID string
	Status     TicketStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TicketWithRelations carries a ticket with its company and assignee
// eagerly attached, as returned by the listing endpoint.
type TicketWithRelations struct {
	Ticket
	Company  Company
	Assignee User
}

// ValidTicketType reports whether t is one of the enumerated types.
func ValidTicketType(t TicketType) bool {
	switch t {
	case TicketTypeManagementReport, TicketTypeRegistrationAddressChange, TicketTypeStrikeOff:
		return true
	}
	return false
}
