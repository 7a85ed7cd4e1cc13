// Package seed loads the demo accounts, complaints and conversations.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "123456"

// Repositories are the stores the seeder writes to.
type Repositories struct {
	Users    repository.UserRepository
	Tickets  repository.TicketRepository
	Messages repository.MessageRepository
}

// Summary counts what a run inserted.
type Summary struct {
	Users    int
	Tickets  int
	Messages int
}

type demoUser struct {
	loginID, email, name string
	role                 domain.UserRole
}

var demoUsers = []demoUser{
	{"AD01", "admin@voicebox.com", "Admin User", domain.UserRoleAdmin},
	{"JD01", "john@voicebox.com", "John Doe", domain.UserRoleUser},
	{"SL01", "sarah@voicebox.com", "Sarah Lee", domain.UserRoleUser},
	{"MJ01", "mike@voicebox.com", "Mike Johnson", domain.UserRoleUser},
	{"HR01", "hr@voicebox.com", "HR Officer", domain.UserRoleHR},
}

type demoTicket struct {
	title, description, category string
	status                       domain.TicketStatus
	priority                     domain.TicketPriority
	sentiment                    domain.Sentiment
	owner                        string
	messages                     []demoMessage
}

type demoMessage struct {
	sender, content string
}

var demoTickets = []demoTicket{
	{
		title:       "Internet connection keeps dropping in Building A",
		description: "The WiFi in Building A, Floor 3 has been intermittently dropping for the past 2 days. Multiple employees are affected and unable to join video calls. This is severely impacting our productivity and deadline commitments.",
		category:    "IT Infrastructure",
		status:      domain.TicketStatusOpen,
		priority:    domain.TicketPriorityCritical,
		sentiment:   domain.SentimentAngry,
		owner:       "JD01",
		messages: []demoMessage{
			{"JD01", "This issue is affecting our entire floor. We need this fixed urgently as we have client presentations this week."},
			{"AD01", "We have escalated this to the networking team. A technician will be dispatched today to inspect the access points on Floor 3."},
			{"JD01", "Thank you for the quick response. Please update us once the technician has diagnosed the issue."},
		},
	},
	{
		title:       "Air conditioning not working in meeting room 5B",
		description: "The air conditioning unit in meeting room 5B has not been functioning for a week. The room becomes unbearably hot during afternoon meetings. We have tried restarting the unit but it still does not cool properly.",
		category:    "Facilities",
		status:      domain.TicketStatusInProgress,
		priority:    domain.TicketPriorityHigh,
		sentiment:   domain.SentimentNeutral,
		owner:       "SL01",
		messages: []demoMessage{
			{"AD01", "We have logged this with the facilities management team. Maintenance is scheduled for tomorrow morning."},
			{"AD01", "In the meantime, could you book an alternative meeting room? Room 4A has working AC and is available."},
		},
	},
	{
		title:       "Payslip discrepancy for December salary",
		description: "I noticed my December payslip shows an incorrect overtime amount. The actual overtime hours logged were 24 hours but the payslip only reflects 12 hours. I have attached my timesheet records for verification.",
		category:    "HR / Payroll",
		status:      domain.TicketStatusOpen,
		priority:    domain.TicketPriorityHigh,
		sentiment:   domain.SentimentAngry,
		owner:       "MJ01",
		messages: []demoMessage{
			{"MJ01", "I have attached my December timesheet showing 24 overtime hours. Please cross-check with payroll records."},
			{"AD01", "We have forwarded your case to the payroll department. They will review your timesheet and issue a correction if needed within 3 business days."},
		},
	},
	{
		title:       "Request for ergonomic chair replacement",
		description: "My office chair has a broken back support and the hydraulic lift no longer holds. I would like to request a replacement ergonomic chair. I have been experiencing back pain due to the current chair condition.",
		category:    "Facilities",
		status:      domain.TicketStatusResolved,
		priority:    domain.TicketPriorityMedium,
		sentiment:   domain.SentimentCalm,
		owner:       "JD01",
		messages: []demoMessage{
			{"AD01", "Could you please provide your desk location and employee ID so we can process the replacement request?"},
			{"JD01", "My desk is B3-12 and employee ID is EMP-1042. Thank you for looking into this."},
			{"AD01", "Your new ergonomic chair has been ordered and will be delivered to your desk by Friday. Marking this ticket as resolved."},
		},
	},
}

// Run inserts the demo data. Existing accounts are reused and tickets are only added to an
// empty ticket table, so running it twice is harmless.
func Run(ctx context.Context, repos Repositories, bcryptCost int, logger *zap.Logger) (Summary, error) {
	var summary Summary
	if logger == nil {
		logger = zap.NewNop()
	}

	hash, err := auth.HashPassword(DemoPassword, bcryptCost)
	if err != nil {
		return summary, fmt.Errorf("hash demo password: %w", err)
	}

	ids := make(map[string]int64, len(demoUsers))
	for _, du := range demoUsers {
		existing, err := repos.Users.GetByLoginID(ctx, du.loginID)
		if err == nil {
			ids[du.loginID] = existing.ID
			continue
		}
		if !errorutil.IsNoRows(err) {
			return summary, fmt.Errorf("lookup %s: %w", du.loginID, err)
		}
		user := &domain.User{LoginID: du.loginID, Name: du.name, Email: du.email, PasswordHash: hash, Role: du.role}
		if err := repos.Users.Create(ctx, user); err != nil {
			return summary, fmt.Errorf("create user %s: %w", du.loginID, err)
		}
		ids[du.loginID] = user.ID
		summary.Users++
		logger.Info("seeded user", zap.String("login_id", user.LoginID), zap.String("role", string(user.Role)))
	}

	existing, err := repos.Tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return summary, fmt.Errorf("list tickets: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("tickets already present; skipping demo tickets", zap.Int("tickets", len(existing)))
		return summary, nil
	}

	for _, dt := range demoTickets {
		category := dt.category
		ticket := &domain.Ticket{
			Title:       dt.title,
			Description: dt.description,
			Status:      dt.status,
			Priority:    dt.priority,
			Category:    &category,
			AIAnalysis:  &domain.Analysis{Category: dt.category, Priority: dt.priority, Sentiment: dt.sentiment},
			UserID:      ids[dt.owner],
		}
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			return summary, fmt.Errorf("create ticket %q: %w", dt.title, err)
		}
		summary.Tickets++

		for _, dm := range dt.messages {
			msg := &domain.Message{TicketID: ticket.ID, SenderID: ids[dm.sender], Content: dm.content}
			if err := repos.Messages.Create(ctx, msg); err != nil {
				return summary, fmt.Errorf("create message on ticket %d: %w", ticket.ID, err)
			}
			summary.Messages++
		}
	}

	logger.Info("seed complete",
		zap.Int("users", summary.Users),
		zap.Int("tickets", summary.Tickets),
		zap.Int("messages", summary.Messages),
	)
	return summary, nil
}
