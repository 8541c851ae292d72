package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/dto"
	"github.com/spec-kit/backoffice-service/internal/cache"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/service"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	cache   *cache.TicketCache
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, ticketCache *cache.TicketCache) *TicketsHandler {
	return &TicketsHandler{service: ticketService, cache: ticketCache}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	if body, ok := h.cache.GetList(c.Context()); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	tickets, err := h.service.FindAll(c.Context())
	if err != nil {
		return err
	}

	items := make([]dto.TicketListItem, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketListItem(&tickets[i]))
	}

	body, err := json.Marshal(items)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	h.cache.SetList(c.Context(), body)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.CompanyID) == "" {
		return apperrors.NewValidationError("companyId required", nil)
	}
	if !domain.ValidTicketType(req.Type) {
		return apperrors.NewValidationError("invalid ticket type", map[string]any{
			"type": req.Type,
			"validTypes": []domain.TicketType{
				domain.TicketTypeManagementReport,
				domain.TicketTypeRegistrationAddressChange,
				domain.TicketTypeStrikeOff,
			},
		})
	}

	ticket, err := h.service.Create(c.Context(), req.CompanyID, req.Type)
	if err != nil {
		return err
	}
	h.cache.Invalidate(c.Context())

	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}
