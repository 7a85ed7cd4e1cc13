package repository

import (
	"context"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// MessageRepository manages ticket conversation messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Message, error)
}

type messageRepository struct {
	db DBTX
}

// NewMessageRepository builds repository.
func NewMessageRepository(db DBTX) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (content, ticket_id, sender_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		msg.Content,
		msg.TicketID,
		msg.SenderID,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Message, error) {
	const query = `
        SELECT m.id, m.ticket_id, m.sender_id, m.content, m.created_at, u.name, COALESCE(u.email, ''), u.role
        FROM messages m
        JOIN users u ON u.id = m.sender_id
        WHERE m.ticket_id=$1
        ORDER BY m.created_at ASC, m.id ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			msg    domain.Message
			sender domain.UserSummary
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.SenderID,
			&msg.Content,
			&msg.CreatedAt,
			&sender.Name,
			&sender.Email,
			&sender.Role,
		); err != nil {
			return nil, err
		}
		sender.ID = msg.SenderID
		msg.Sender = &sender
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
