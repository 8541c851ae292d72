package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// ErrDuplicateOpenAddressChange reports a violation of the partial unique
// index guarding open registrationAddressChange tickets.
var ErrDuplicateOpenAddressChange = errors.New("open registrationAddressChange ticket already exists")

const uniqueOpenAddressChangeIndex = "uniq_open_address_change_per_company"

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// ListOpenByCompany returns open tickets for the company, optionally
	// restricted to a single type.
	ListOpenByCompany(ctx context.Context, companyID string, ticketType *domain.TicketType) ([]domain.Ticket, error)
	// ResolveAndCreate marks the given tickets resolved and inserts the new
	// ticket within one transaction, in that order. Either everything
	// commits or nothing does.
	ResolveAndCreate(ctx context.Context, resolveIDs []string, ticket *domain.Ticket) error
	ListWithRelations(ctx context.Context) ([]domain.TicketWithRelations, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const insertTicketQuery = `
        INSERT INTO tickets (type, category, company_id, assignee_id, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	err := r.pool.QueryRow(ctx, insertTicketQuery,
		ticket.Type,
		ticket.Category,
		ticket.CompanyID,
		ticket.AssigneeID,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return mapInsertError(err)
}

func (r *ticketRepository) ListOpenByCompany(ctx context.Context, companyID string, ticketType *domain.TicketType) ([]domain.Ticket, error) {
	const base = `
        SELECT id, type, category, company_id, assignee_id, status, created_at, updated_at
        FROM tickets
        WHERE company_id=$1 AND status=$2`

	args := []any{companyID, domain.TicketStatusOpen}
	query := base
	if ticketType != nil {
		args = append(args, *ticketType)
		query += " AND type=$3"
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ResolveAndCreate(ctx context.Context, resolveIDs []string, ticket *domain.Ticket) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if len(resolveIDs) > 0 {
			const resolveQuery = `
                UPDATE tickets SET status=$1, updated_at=NOW()
                WHERE id = ANY($2)`
			if _, err := tx.Exec(ctx, resolveQuery, domain.TicketStatusResolved, resolveIDs); err != nil {
				return err
			}
		}
		return tx.QueryRow(ctx, insertTicketQuery,
			ticket.Type,
			ticket.Category,
			ticket.CompanyID,
			ticket.AssigneeID,
			ticket.Status,
		).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	})
	return mapInsertError(err)
}

func (r *ticketRepository) ListWithRelations(ctx context.Context) ([]domain.TicketWithRelations, error) {
	const query = `
        SELECT t.id, t.type, t.category, t.company_id, t.assignee_id, t.status, t.created_at, t.updated_at,
               c.id, c.name, c.created_at, c.updated_at,
               u.id, u.name, u.role, u.company_id, u.created_at, u.updated_at
        FROM tickets t
        JOIN companies c ON c.id = t.company_id
        JOIN users u ON u.id = t.assignee_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketWithRelations
	for rows.Next() {
		var item domain.TicketWithRelations
		if err := rows.Scan(
			&item.ID,
			&item.Type,
			&item.Category,
			&item.CompanyID,
			&item.AssigneeID,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Company.ID,
			&item.Company.Name,
			&item.Company.CreatedAt,
			&item.Company.UpdatedAt,
			&item.Assignee.ID,
			&item.Assignee.Name,
			&item.Assignee.Role,
			&item.Assignee.CompanyID,
			&item.Assignee.CreatedAt,
			&item.Assignee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Type,
			&ticket.Category,
			&ticket.CompanyID,
			&ticket.AssigneeID,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func mapInsertError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueOpenAddressChangeIndex {
		return ErrDuplicateOpenAddressChange
	}
	return err
}
