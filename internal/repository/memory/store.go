// Package memory provides in-process repository implementations used when no database is configured.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// Store holds every table in memory. Repositories created from the same Store share data.
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	users     []domain.User
	tickets   []domain.Ticket
	messages  []domain.Message
	documents []domain.Document
	seq       int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// stamp returns a strictly increasing timestamp so ordering by creation time is stable.
func (s *Store) stamp() time.Time {
	return s.now().Add(time.Duration(s.seq) * time.Microsecond)
}

// Users returns a UserRepository backed by the store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Tickets returns a TicketRepository backed by the store.
func (s *Store) Tickets() repository.TicketRepository { return &ticketRepo{s} }

// Messages returns a MessageRepository backed by the store.
func (s *Store) Messages() repository.MessageRepository { return &messageRepo{s} }

// Documents returns a DocumentRepository backed by the store.
func (s *Store) Documents() repository.DocumentRepository { return &documentRepo{s} }

func (s *Store) userByID(id int64) (*domain.User, bool) {
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i], true
		}
	}
	return nil, false
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.LoginID, user.LoginID) {
			return constraintError(errorutil.PgUniqueViolation, "users_login_id_upper_idx")
		}
		if user.Email != "" && existing.Email == user.Email {
			return constraintError(errorutil.PgUniqueViolation, "users_email_idx")
		}
	}
	user.ID = r.s.nextID()
	user.CreatedAt = r.s.stamp()
	user.UpdatedAt = user.CreatedAt
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.userByID(id); ok {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) GetByLoginID(_ context.Context, loginID string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.LoginID, loginID) {
			cp := u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email != "" && u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) ListWithTicketCounts(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := map[int64]int{}
	for _, t := range r.s.tickets {
		counts[t.UserID]++
	}
	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u.PasswordHash = ""
		u.TicketCount = counts[u.ID]
		users = append(users, u)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

type ticketRepo struct{ s *Store }

func (r *ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.userByID(ticket.UserID); !ok {
		return constraintError(errorutil.PgForeignKeyViolation, "tickets_user_id_fkey")
	}
	ticket.ID = r.s.nextID()
	ticket.CreatedAt = r.s.stamp()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	stored.Owner = nil
	stored.Messages = nil
	r.s.tickets = append(r.s.tickets, stored)
	return nil
}

func (r *ticketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tickets {
		if t.ID == id {
			out := r.withOwner(t)
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Ticket{}
	for _, t := range r.s.tickets {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, t.Priority) {
			continue
		}
		out = append(out, r.withOwner(t))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ticketRepo) UpdateStatus(_ context.Context, id int64, status domain.TicketStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.tickets {
		if r.s.tickets[i].ID == id {
			r.s.tickets[i].Status = status
			r.s.tickets[i].UpdatedAt = r.s.now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *ticketRepo) Analytics(_ context.Context, categoryLimit int) (*domain.TicketAnalytics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := &domain.TicketAnalytics{TotalTickets: len(r.s.tickets)}
	priorities := map[string]int{}
	statuses := map[string]int{}
	categories := map[string]int{}
	for _, t := range r.s.tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			out.OpenTickets++
		case domain.TicketStatusResolved:
			out.ResolvedTickets++
		}
		if t.Priority == domain.TicketPriorityCritical {
			out.CriticalTickets++
		}
		priorities[string(t.Priority)]++
		statuses[string(t.Status)]++
		if t.Category != nil {
			categories[*t.Category]++
		}
	}
	out.ByPriority = rankCounts(priorities, 0)
	out.ByStatus = rankCounts(statuses, 0)
	out.ByCategory = rankCounts(categories, categoryLimit)
	return out, nil
}

func (r *ticketRepo) withOwner(t domain.Ticket) domain.Ticket {
	if u, ok := r.s.userByID(t.UserID); ok {
		owner := u.Summary()
		t.Owner = &owner
	}
	return t
}

type messageRepo struct{ s *Store }

func (r *messageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := false
	for _, t := range r.s.tickets {
		if t.ID == msg.TicketID {
			found = true
			break
		}
	}
	if !found {
		return constraintError(errorutil.PgForeignKeyViolation, "messages_ticket_id_fkey")
	}
	if _, ok := r.s.userByID(msg.SenderID); !ok {
		return constraintError(errorutil.PgForeignKeyViolation, "messages_sender_id_fkey")
	}
	msg.ID = r.s.nextID()
	msg.CreatedAt = r.s.stamp()
	stored := *msg
	stored.Sender = nil
	r.s.messages = append(r.s.messages, stored)
	return nil
}

func (r *messageRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Message{}
	for _, m := range r.s.messages {
		if m.TicketID != ticketID {
			continue
		}
		if u, ok := r.s.userByID(m.SenderID); ok {
			sender := u.Summary()
			m.Sender = &sender
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type documentRepo struct{ s *Store }

func (r *documentRepo) Create(_ context.Context, doc *domain.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc.ID = r.s.nextID()
	doc.CreatedAt = r.s.stamp()
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	stored := *doc
	stored.Embedding = append([]float32(nil), doc.Embedding...)
	r.s.documents = append(r.s.documents, stored)
	return nil
}

func (r *documentRepo) List(_ context.Context) ([]domain.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Document, 0, len(r.s.documents))
	for _, d := range r.s.documents {
		d.Embedding = nil
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Match mirrors match_documents: cosine similarity above threshold, best first.
func (r *documentRepo) Match(_ context.Context, embedding []float32, threshold float64, limit int) ([]domain.DocumentMatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.DocumentMatch{}
	for _, d := range r.s.documents {
		sim := cosineSimilarity(embedding, d.Embedding)
		if sim <= threshold {
			continue
		}
		out = append(out, domain.DocumentMatch{ID: d.ID, Content: d.Content, Metadata: d.Metadata, Similarity: sim})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func constraintError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint, Message: "constraint violation: " + constraint}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func rankCounts(counts map[string]int, limit int) []domain.GroupCount {
	out := make([]domain.GroupCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, domain.GroupCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}
