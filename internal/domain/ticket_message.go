package domain

import "time"

// Message is one entry in a ticket conversation.
type Message struct {
	ID        int64
	TicketID  int64
	SenderID  int64
	Content   string
	Sender    *UserSummary
	CreatedAt time.Time
}
