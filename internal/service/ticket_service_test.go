package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

type fakeCompanyRepo struct {
	companies map[string]domain.Company
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &company, nil
}

type fakeUserRepo struct {
	users []domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListByCompanyAndRoles(ctx context.Context, companyID string, roles []domain.UserRole) ([]domain.User, error) {
	roleSet := make(map[domain.UserRole]bool, len(roles))
	for _, role := range roles {
		roleSet[role] = true
	}
	var matched []domain.User
	for _, user := range f.users {
		if user.CompanyID == companyID && roleSet[user.Role] {
			matched = append(matched, user)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

type fakeTicketRepo struct {
	tickets []domain.Ticket
	seq     int
	failErr error
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets = append(f.tickets, *ticket)
	return nil
}

func (f *fakeTicketRepo) ListOpenByCompany(ctx context.Context, companyID string, ticketType *domain.TicketType) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.CompanyID != companyID || ticket.Status != domain.TicketStatusOpen {
			continue
		}
		if ticketType != nil && ticket.Type != *ticketType {
			continue
		}
		result = append(result, ticket)
	}
	return result, nil
}

func (f *fakeTicketRepo) ResolveAndCreate(ctx context.Context, resolveIDs []string, ticket *domain.Ticket) error {
	if f.failErr != nil {
		return f.failErr
	}
	resolveSet := make(map[string]bool, len(resolveIDs))
	for _, id := range resolveIDs {
		resolveSet[id] = true
	}
	for i := range f.tickets {
		if resolveSet[f.tickets[i].ID] {
			f.tickets[i].Status = domain.TicketStatusResolved
		}
	}
	return f.Create(ctx, ticket)
}

func (f *fakeTicketRepo) ListWithRelations(ctx context.Context) ([]domain.TicketWithRelations, error) {
	result := make([]domain.TicketWithRelations, 0, len(f.tickets))
	for _, ticket := range f.tickets {
		result = append(result, domain.TicketWithRelations{Ticket: ticket})
	}
	return result, nil
}

func (f *fakeTicketRepo) openTickets(companyID string) []domain.Ticket {
	open, _ := f.ListOpenByCompany(context.Background(), companyID, nil)
	return open
}

const testCompanyID = "company-1"

func newFixture(users ...domain.User) (*TicketService, *fakeTicketRepo) {
	tickets := &fakeTicketRepo{}
	svc := NewTicketService(TicketDependencies{
		CompanyRepo: &fakeCompanyRepo{companies: map[string]domain.Company{
			testCompanyID: {ID: testCompanyID, Name: "Acme Pte Ltd"},
		}},
		UserRepo:   &fakeUserRepo{users: users},
		TicketRepo: tickets,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return svc, tickets
}

func user(id string, role domain.UserRole, createdAt time.Time) domain.User {
	return domain.User{ID: id, Name: id, Role: role, CompanyID: testCompanyID, CreatedAt: createdAt}
}

func requireConflict(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, 409, domainErr.HTTPStatus)
	require.Equal(t, message, domainErr.Message)
}

func TestCreateManagementReportAssignsNewestAccountant(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	svc, _ := newFixture(
		user("acct-old", domain.RoleAccountant, base),
		user("acct-new", domain.RoleAccountant, base.Add(time.Minute)),
	)

	ticket, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeManagementReport)
	require.NoError(t, err)
	require.Equal(t, domain.TicketCategoryAccounting, ticket.Category)
	require.Equal(t, "acct-new", ticket.AssigneeID)
	require.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

func TestCreateCategoryMatchesType(t *testing.T) {
	base := time.Now()
	cases := []struct {
		ticketType domain.TicketType
		category   domain.TicketCategory
	}{
		{domain.TicketTypeManagementReport, domain.TicketCategoryAccounting},
		{domain.TicketTypeRegistrationAddressChange, domain.TicketCategoryCorporate},
		{domain.TicketTypeStrikeOff, domain.TicketCategoryManagement},
	}
	for _, tc := range cases {
		svc, _ := newFixture(
			user("acct", domain.RoleAccountant, base),
			user("sec", domain.RoleCorporateSecretary, base),
			user("dir", domain.RoleDirector, base),
		)
		ticket, err := svc.Create(context.Background(), testCompanyID, tc.ticketType)
		require.NoError(t, err)
		require.Equal(t, tc.category, ticket.Category)
	}
}

func TestCreateAddressChangeFallsBackToDirector(t *testing.T) {
	svc, _ := newFixture(user("dir", domain.RoleDirector, time.Now()))

	ticket, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	require.NoError(t, err)
	require.Equal(t, domain.TicketCategoryCorporate, ticket.Category)
	require.Equal(t, "dir", ticket.AssigneeID)
	require.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

func TestCreateAddressChangePrefersSecretaryOverDirector(t *testing.T) {
	base := time.Now()
	svc, _ := newFixture(
		user("sec", domain.RoleCorporateSecretary, base),
		user("dir", domain.RoleDirector, base.Add(time.Minute)),
	)

	ticket, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	require.NoError(t, err)
	require.Equal(t, "sec", ticket.AssigneeID)
}

func TestCreateDuplicateAddressChange(t *testing.T) {
	svc, _ := newFixture(user("sec", domain.RoleCorporateSecretary, time.Now()))

	_, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	requireConflict(t, err, "A registrationAddressChange ticket already exists for this company")
}

func TestCreateAddressChangeAfterResolveSucceeds(t *testing.T) {
	svc, tickets := newFixture(
		user("sec", domain.RoleCorporateSecretary, time.Now()),
		user("dir", domain.RoleDirector, time.Now()),
	)

	_, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	require.NoError(t, err)

	// Strike-off resolves the open address change, which unblocks a new one.
	_, err = svc.Create(context.Background(), testCompanyID, domain.TicketTypeStrikeOff)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	require.NoError(t, err)

	openAddressChanges := 0
	for _, ticket := range tickets.openTickets(testCompanyID) {
		if ticket.Type == domain.TicketTypeRegistrationAddressChange {
			openAddressChanges++
		}
	}
	require.Equal(t, 1, openAddressChanges)
}

func TestCreateNoAssigneeMessages(t *testing.T) {
	cases := []struct {
		ticketType domain.TicketType
		message    string
	}{
		{domain.TicketTypeManagementReport, "Cannot find user with role accountant to create a ticket"},
		{domain.TicketTypeStrikeOff, "Cannot find user with role director to create a ticket"},
		{domain.TicketTypeRegistrationAddressChange, "Cannot find user with role corporateSecretary or director to create a ticket"},
	}
	for _, tc := range cases {
		svc, _ := newFixture()
		_, err := svc.Create(context.Background(), testCompanyID, tc.ticketType)
		requireConflict(t, err, tc.message)
	}
}

func TestCreateAmbiguousRestrictiveRoles(t *testing.T) {
	base := time.Now()

	svc, _ := newFixture(
		user("dir-1", domain.RoleDirector, base),
		user("dir-2", domain.RoleDirector, base.Add(time.Minute)),
	)
	_, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeStrikeOff)
	requireConflict(t, err, "Multiple users with role director. Cannot create a ticket")

	svc, _ = newFixture(
		user("sec-1", domain.RoleCorporateSecretary, base),
		user("sec-2", domain.RoleCorporateSecretary, base.Add(time.Minute)),
	)
	_, err = svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	requireConflict(t, err, "Multiple users with role corporateSecretary. Cannot create a ticket")

	// Fallback path with two directors is equally ambiguous.
	svc, _ = newFixture(
		user("dir-1", domain.RoleDirector, base),
		user("dir-2", domain.RoleDirector, base.Add(time.Minute)),
	)
	_, err = svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	requireConflict(t, err, "Multiple users with role director. Cannot create a ticket")
}

func TestCreateMultipleAccountantsAllowed(t *testing.T) {
	base := time.Now()
	svc, _ := newFixture(
		user("acct-1", domain.RoleAccountant, base),
		user("acct-2", domain.RoleAccountant, base.Add(time.Minute)),
		user("acct-3", domain.RoleAccountant, base.Add(2*time.Minute)),
	)

	ticket, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeManagementReport)
	require.NoError(t, err)
	require.Equal(t, "acct-3", ticket.AssigneeID)
}

func TestStrikeOffCascade(t *testing.T) {
	base := time.Now()
	svc, tickets := newFixture(
		user("acct", domain.RoleAccountant, base),
		user("sec", domain.RoleCorporateSecretary, base),
		user("dir", domain.RoleDirector, base),
	)
	ctx := context.Background()

	_, err := svc.Create(ctx, testCompanyID, domain.TicketTypeManagementReport)
	require.NoError(t, err)
	_, err = svc.Create(ctx, testCompanyID, domain.TicketTypeRegistrationAddressChange)
	require.NoError(t, err)
	strikeOff, err := svc.Create(ctx, testCompanyID, domain.TicketTypeStrikeOff)
	require.NoError(t, err)
	require.Equal(t, "dir", strikeOff.AssigneeID)

	require.Len(t, tickets.tickets, 3)
	open := tickets.openTickets(testCompanyID)
	require.Len(t, open, 1)
	require.Equal(t, domain.TicketTypeStrikeOff, open[0].Type)

	resolved := 0
	for _, ticket := range tickets.tickets {
		if ticket.Status == domain.TicketStatusResolved {
			resolved++
		}
	}
	require.Equal(t, 2, resolved)
}

func TestStrikeOffRepeatedIsNotIdempotent(t *testing.T) {
	svc, tickets := newFixture(user("dir", domain.RoleDirector, time.Now()))
	ctx := context.Background()

	first, err := svc.Create(ctx, testCompanyID, domain.TicketTypeStrikeOff)
	require.NoError(t, err)

	second, err := svc.Create(ctx, testCompanyID, domain.TicketTypeStrikeOff)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	require.Len(t, tickets.tickets, 2)
	open := tickets.openTickets(testCompanyID)
	require.Len(t, open, 1)
	require.Equal(t, second.ID, open[0].ID)
}

func TestCreateCompanyNotFound(t *testing.T) {
	svc, _ := newFixture(user("dir", domain.RoleDirector, time.Now()))

	_, err := svc.Create(context.Background(), "missing-company", domain.TicketTypeStrikeOff)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, 404, domainErr.HTTPStatus)
}

func TestCreateInvalidType(t *testing.T) {
	svc, _ := newFixture()
	_, err := svc.Create(context.Background(), testCompanyID, domain.TicketType("bogus"))
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, 400, domainErr.HTTPStatus)
}

func TestCreateValidationFailsBeforeWrite(t *testing.T) {
	svc, tickets := newFixture(user("dir-1", domain.RoleDirector, time.Now()), user("dir-2", domain.RoleDirector, time.Now().Add(time.Second)))

	_, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeStrikeOff)
	require.Error(t, err)
	require.Empty(t, tickets.tickets)
}

func TestCreateDuplicateFromStoreGuard(t *testing.T) {
	svc, tickets := newFixture(user("sec", domain.RoleCorporateSecretary, time.Now()))
	// Simulate losing the race: the read sees nothing open but the unique
	// index rejects the insert.
	tickets.failErr = repository.ErrDuplicateOpenAddressChange

	_, err := svc.Create(context.Background(), testCompanyID, domain.TicketTypeRegistrationAddressChange)
	requireConflict(t, err, "A registrationAddressChange ticket already exists for this company")
}

func TestFindAllEmpty(t *testing.T) {
	svc, _ := newFixture()
	tickets, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tickets)
	require.Empty(t, tickets)
}
