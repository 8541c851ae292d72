package dto

import (
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Type      domain.TicketType `json:"type"`
	CompanyID string            `json:"companyId"`
}

// TicketResponse is the ticket projection returned on creation.
type TicketResponse struct {
	ID         string                `json:"id"`
	Type       domain.TicketType     `json:"type"`
	CompanyID  string                `json:"companyId"`
	AssigneeID string                `json:"assigneeId"`
	Status     domain.TicketStatus   `json:"status"`
	Category   domain.TicketCategory `json:"category"`
}

// CompanyResponse embedded company.
type CompanyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserResponse embedded assignee.
type UserResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      domain.UserRole `json:"role"`
	CompanyID string          `json:"companyId"`
}

// TicketListItem is a ticket with company and assignee eagerly attached.
type TicketListItem struct {
	TicketResponse
	Company   CompanyResponse `json:"company"`
	Assignee  UserResponse    `json:"assignee"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewTicketResponse projects a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:         ticket.ID,
		Type:       ticket.Type,
		CompanyID:  ticket.CompanyID,
		AssigneeID: ticket.AssigneeID,
		Status:     ticket.Status,
		Category:   ticket.Category,
	}
}

// NewTicketListItem projects a ticket with relations.
func NewTicketListItem(item *domain.TicketWithRelations) TicketListItem {
	return TicketListItem{
		TicketResponse: NewTicketResponse(&item.Ticket),
		Company: CompanyResponse{
			ID:   item.Company.ID,
			Name: item.Company.Name,
		},
		Assignee: UserResponse{
			ID:        item.Assignee.ID,
			Name:      item.Assignee.Name,
			Role:      item.Assignee.Role,
			CompanyID: item.Assignee.CompanyID,
		},
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
