package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// rolePolicy captures how a ticket type maps to category and assignable roles.
type rolePolicy struct {
	category     domain.TicketCategory
	primaryRole  domain.UserRole
	fallbackRole *domain.UserRole
}

func policyFor(ticketType domain.TicketType) rolePolicy {
	switch ticketType {
	case domain.TicketTypeManagementReport:
		return rolePolicy{
			category:    domain.TicketCategoryAccounting,
			primaryRole: domain.RoleAccountant,
		}
	case domain.TicketTypeStrikeOff:
		return rolePolicy{
			category:    domain.TicketCategoryManagement,
			primaryRole: domain.RoleDirector,
		}
	default: // registrationAddressChange
		fallback := domain.RoleDirector
		return rolePolicy{
			category:     domain.TicketCategoryCorporate,
			primaryRole:  domain.RoleCorporateSecretary,
			fallbackRole: &fallback,
		}
	}
}

// TicketService coordinates ticket creation and listing.
type TicketService struct {
	companies  repository.CompanyRepository
	users      repository.UserRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	CompanyRepo repository.CompanyRepository
	UserRepo    repository.UserRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		companies:  deps.CompanyRepo,
		users:      deps.UserRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

const duplicateAddressChangeMessage = "A registrationAddressChange ticket already exists for this company"

// Create resolves an assignee by role policy and records the ticket. For
// strikeOff every previously open ticket of the company is resolved in the
// same transaction that inserts the new ticket.
func (s *TicketService) Create(ctx context.Context, companyID string, ticketType domain.TicketType) (*domain.Ticket, error) {
	if !domain.ValidTicketType(ticketType) {
		return nil, apperrors.NewValidationError("invalid ticket type", map[string]any{"type": ticketType})
	}

	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("company", map[string]any{"company_id": companyID})
		}
		return nil, apperrors.MapError(err)
	}

	policy := policyFor(ticketType)

	roles := []domain.UserRole{policy.primaryRole}
	if policy.fallbackRole != nil {
		roles = append(roles, *policy.fallbackRole)
	}

	var (
		users       []domain.User
		openTickets []domain.Ticket
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		users, err = s.users.ListByCompanyAndRoles(groupCtx, companyID, roles)
		return err
	})
	if ticketType == domain.TicketTypeRegistrationAddressChange || ticketType == domain.TicketTypeStrikeOff {
		group.Go(func() error {
			var typeFilter *domain.TicketType
			if ticketType == domain.TicketTypeRegistrationAddressChange {
				addressChange := domain.TicketTypeRegistrationAddressChange
				typeFilter = &addressChange
			}
			var err error
			openTickets, err = s.tickets.ListOpenByCompany(groupCtx, companyID, typeFilter)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticketType == domain.TicketTypeRegistrationAddressChange {
		for _, open := range openTickets {
			if open.Type == domain.TicketTypeRegistrationAddressChange {
				return nil, apperrors.NewConflict(duplicateAddressChangeMessage, nil)
			}
		}
	}

	// users is already ordered newest-first, so filtering preserves the
	// last-created-wins rule.
	assignees := filterByRole(users, policy.primaryRole)
	selectedRole := policy.primaryRole
	if ticketType == domain.TicketTypeRegistrationAddressChange && len(assignees) == 0 && policy.fallbackRole != nil {
		assignees = filterByRole(users, *policy.fallbackRole)
		selectedRole = *policy.fallbackRole
	}

	if len(assignees) == 0 {
		roleMessage := string(policy.primaryRole)
		if ticketType == domain.TicketTypeRegistrationAddressChange {
			roleMessage = "corporateSecretary or director"
		}
		return nil, apperrors.NewConflict(
			fmt.Sprintf("Cannot find user with role %s to create a ticket", roleMessage), nil)
	}

	// Multiple accountants are allowed; the restrictive roles are not.
	if (selectedRole == domain.RoleCorporateSecretary || selectedRole == domain.RoleDirector) && len(assignees) > 1 {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("Multiple users with role %s. Cannot create a ticket", selectedRole), nil)
	}

	assignee := assignees[0]

	ticket := &domain.Ticket{
		Type:       ticketType,
		Category:   policy.category,
		CompanyID:  companyID,
		AssigneeID: assignee.ID,
		Status:     domain.TicketStatusOpen,
	}

	if ticketType == domain.TicketTypeStrikeOff {
		resolveIDs := make([]string, 0, len(openTickets))
		for _, open := range openTickets {
			resolveIDs = append(resolveIDs, open.ID)
		}
		if err := s.tickets.ResolveAndCreate(ctx, resolveIDs, ticket); err != nil {
			return nil, mapCreateError(err)
		}
		if len(resolveIDs) > 0 {
			s.publishEvent(ctx, events.Event{
				Type: events.EventTicketsResolved,
				Payload: events.TicketsResolvedPayload{
					CompanyID:   companyID,
					ResolvedIDs: resolveIDs,
					CauseID:     ticket.ID,
				},
			})
		}
	} else {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return nil, mapCreateError(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketID:   ticket.ID,
			TicketType: ticket.Type,
			Category:   ticket.Category,
			CompanyID:  ticket.CompanyID,
			AssigneeID: ticket.AssigneeID,
		},
	})
	return ticket, nil
}

// FindAll returns every ticket with its company and assignee attached.
func (s *TicketService) FindAll(ctx context.Context) ([]domain.TicketWithRelations, error) {
	tickets, err := s.tickets.ListWithRelations(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.TicketWithRelations{}
	}
	return tickets, nil
}

func filterByRole(users []domain.User, role domain.UserRole) []domain.User {
	var matched []domain.User
	for _, user := range users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	return matched
}

func mapCreateError(err error) error {
	if errors.Is(err, repository.ErrDuplicateOpenAddressChange) {
		return apperrors.NewConflict(duplicateAddressChangeMessage, nil)
	}
	return apperrors.MapError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
