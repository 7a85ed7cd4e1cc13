package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusRejected   TicketStatus = "REJECTED"
)

// Valid reports whether s is a known status. Any known status may follow any other.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusRejected:
		return true
	}
	return false
}

// TicketPriority enumerates complaint urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Coordinates is a map pin attached to a complaint.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Ticket is the aggregate for submitted complaints.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Category    *string
	Location    *string
	ImageURL    *string
	Coordinates *Coordinates
	AIAnalysis  *Analysis
	UserID      int64
	Owner       *UserSummary
	Messages    []Message
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
