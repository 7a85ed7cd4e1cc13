package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// TicketFilter narrows dashboard listings.
type TicketFilter struct {
	UserID     *int64
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error
	Analytics(ctx context.Context, categoryLimit int) (*domain.TicketAnalytics, error)
}

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DBTX) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketSelect = `
        SELECT t.id, t.title, t.description, t.status, t.priority, t.category, t.location, t.image_url,
               t.latitude, t.longitude, t.ai_analysis, t.user_id, t.created_at, t.updated_at,
               u.name, COALESCE(u.email, ''), u.role
        FROM tickets t
        JOIN users u ON u.id = t.user_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, category, location, image_url,
                             latitude, longitude, ai_analysis, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	analysis, err := encodeAnalysis(ticket.AIAnalysis)
	if err != nil {
		return err
	}
	lat, lng := coordinateArgs(ticket.Coordinates)

	return r.db.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.Location,
		ticket.ImageURL,
		lat,
		lng,
		analysis,
		ticket.UserID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = ticketSelect + ` WHERE t.id=$1`
	return scanTicket(r.db.QueryRow(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("t.user_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC, t.id DESC`, ticketSelect, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Analytics(ctx context.Context, categoryLimit int) (*domain.TicketAnalytics, error) {
	const totals = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'OPEN'),
               COUNT(*) FILTER (WHERE status = 'RESOLVED'),
               COUNT(*) FILTER (WHERE priority = 'CRITICAL')
        FROM tickets`

	var out domain.TicketAnalytics
	if err := r.db.QueryRow(ctx, totals).Scan(
		&out.TotalTickets,
		&out.OpenTickets,
		&out.ResolvedTickets,
		&out.CriticalTickets,
	); err != nil {
		return nil, err
	}

	var err error
	if out.ByPriority, err = r.groupCounts(ctx,
		`SELECT priority, COUNT(*) FROM tickets GROUP BY priority ORDER BY COUNT(*) DESC, priority`); err != nil {
		return nil, err
	}
	if out.ByStatus, err = r.groupCounts(ctx,
		`SELECT status, COUNT(*) FROM tickets GROUP BY status ORDER BY COUNT(*) DESC, status`); err != nil {
		return nil, err
	}
	if out.ByCategory, err = r.groupCounts(ctx,
		`SELECT category, COUNT(*) FROM tickets WHERE category IS NOT NULL GROUP BY category ORDER BY COUNT(*) DESC, category LIMIT $1`,
		categoryLimit); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ticketRepository) groupCounts(ctx context.Context, query string, args ...any) ([]domain.GroupCount, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []domain.GroupCount{}
	for rows.Next() {
		var g domain.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		owner    domain.UserSummary
		lat, lng *float64
		analysis []byte
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.Location,
		&ticket.ImageURL,
		&lat,
		&lng,
		&analysis,
		&ticket.UserID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&owner.Name,
		&owner.Email,
		&owner.Role,
	); err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		ticket.Coordinates = &domain.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	if len(analysis) > 0 {
		var a domain.Analysis
		if err := json.Unmarshal(analysis, &a); err != nil {
			return nil, fmt.Errorf("decode ai_analysis: %w", err)
		}
		ticket.AIAnalysis = &a
	}
	owner.ID = ticket.UserID
	ticket.Owner = &owner
	return &ticket, nil
}

func encodeAnalysis(a *domain.Analysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func coordinateArgs(c *domain.Coordinates) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Latitude, c.Longitude
	return &lat, &lng
}
