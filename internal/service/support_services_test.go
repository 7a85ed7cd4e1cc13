package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/mail"
	"github.com/spec-kit/complaint-desk/internal/markdown"
	"github.com/spec-kit/complaint-desk/internal/repository/memory"
)

func TestAuthService_Login(t *testing.T) {
	store := memory.NewStore()
	hash, err := auth.HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), &domain.User{LoginID: "JD01", Name: "John Doe", Email: "john@voicebox.com", PasswordHash: hash, Role: domain.UserRoleUser}))
	require.NoError(t, store.Users().Create(context.Background(), &domain.User{LoginID: "OLD1", Name: "Legacy", PasswordHash: "plain", Role: domain.UserRoleUser}))

	tokens := auth.NewTokenManager("secret", 5)
	strict := NewAuthService(config.AuthConfig{}, store.Users(), tokens)
	lenient := NewAuthService(config.AuthConfig{AllowPlaintextPasswords: true}, store.Users(), tokens)

	res, err := strict.Login(context.Background(), "  jd01 ", "123456")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", res.User.Name)
	assert.Equal(t, "JD01", res.User.LoginID)
	assert.NotEmpty(t, res.Token.Value)
	claims, err := tokens.ParseToken(res.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	tests := []struct {
		name     string
		svc      *AuthService
		login    string
		password string
		status   int
		message  string
	}{
		{"missing fields", strict, " ", "", http.StatusBadRequest, ""},
		{"unknown login", strict, "ZZ99", "123456", http.StatusUnauthorized, "Invalid login ID"},
		{"wrong password", strict, "JD01", "000000", http.StatusUnauthorized, "Invalid password"},
		{"plaintext refused", strict, "OLD1", "plain", http.StatusUnauthorized, "Invalid password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Login(context.Background(), tt.login, tt.password)
			assert.Equal(t, tt.status, httpStatus(t, err))
			if tt.message != "" {
				assert.EqualError(t, err, tt.message)
			}
		})
	}

	_, err = lenient.Login(context.Background(), "old1", "plain")
	assert.NoError(t, err)
}

func TestUserService_CreateUser(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users(), bcrypt.MinCost)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, UserCreateInput{Name: "Nina", Email: "nina@voicebox.com", LoginID: " nk01 ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "NK01", user.LoginID)
	assert.Equal(t, domain.UserRoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)

	stored, err := store.Users().GetByLoginID(ctx, "NK01")
	require.NoError(t, err)
	assert.True(t, auth.IsBcryptHash(stored.PasswordHash))

	_, err = svc.CreateUser(ctx, UserCreateInput{Name: "Other", Email: "other@voicebox.com", LoginID: "nk01", Password: "x"})
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
	assert.EqualError(t, err, `Login ID "NK01" is already taken`)

	_, err = svc.CreateUser(ctx, UserCreateInput{Name: "Other", Email: "nina@voicebox.com", LoginID: "OT01", Password: "x"})
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
	assert.EqualError(t, err, "A user with this email already exists")

	_, err = svc.CreateUser(ctx, UserCreateInput{Name: "Other", Email: "o@voicebox.com", LoginID: "OT01"})
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	_, err = svc.CreateUser(ctx, UserCreateInput{Name: "Other", Email: "o@voicebox.com", LoginID: "OT01", Password: "x", Role: "ROOT"})
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	hr, err := svc.CreateUser(ctx, UserCreateInput{Name: "HR", Email: "hr2@voicebox.com", LoginID: "HR02", Password: "x", Role: domain.UserRoleHR})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleHR, hr.Role)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "HR02", users[0].LoginID)
}

func TestMessageService_Send(t *testing.T) {
	store := memory.NewStore()
	owner := createUser(t, store, "JD01", "", domain.UserRoleUser)
	ticket := &domain.Ticket{Title: "t", Description: "d", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow, UserID: owner.ID}
	require.NoError(t, store.Tickets().Create(context.Background(), ticket))

	dispatcher := events.NewInMemoryDispatcher(nil)
	var got []events.Event
	dispatcher.Subscribe(events.EventTicketMessageAdded, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})
	svc := NewMessageService(store.Tickets(), store.Messages(), store.Users(), dispatcher)

	msg, err := svc.Send(context.Background(), MessageSendInput{TicketID: ticket.ID, SenderID: owner.ID, Content: " Any update? "})
	require.NoError(t, err)
	assert.Equal(t, "Any update?", msg.Content)
	assert.Equal(t, owner.Name, msg.Sender.Name)
	require.Len(t, got, 1)

	_, err = svc.Send(context.Background(), MessageSendInput{TicketID: 999, SenderID: owner.ID, Content: "hi"})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
	_, err = svc.Send(context.Background(), MessageSendInput{TicketID: ticket.ID, SenderID: 999, Content: "hi"})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
	_, err = svc.Send(context.Background(), MessageSendInput{TicketID: ticket.ID, SenderID: owner.ID, Content: "  "})
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestKnowledgeService_Upload(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	svc := NewKnowledgeService(store.Documents(), stubEmbedder{vector: vector(domain.EmbeddingDimensions)})
	doc, err := svc.Upload(ctx, "Restart the access point", nil)
	require.NoError(t, err)
	assert.NotZero(t, doc.ID)
	assert.Empty(t, doc.Metadata)

	_, err = svc.Upload(ctx, "   ", nil)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	short := NewKnowledgeService(store.Documents(), stubEmbedder{vector: vector(10)})
	_, err = short.Upload(ctx, "bad vector", nil)
	assert.Equal(t, http.StatusInternalServerError, httpStatus(t, err))

	docs, err := svc.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestSuggestionService(t *testing.T) {
	t.Run("empty knowledge base uses placeholder", func(t *testing.T) {
		gen := &stubGenerator{reply: "1. Restart the router"}
		svc := NewSuggestionService(stubEmbedder{vector: vector(3)}, gen, stubMatcher{}, nil)

		assert.Equal(t, "1. Restart the router", svc.Suggest(context.Background(), "WiFi is down"))
		assert.Contains(t, gen.prompt, NoContextPlaceholder)
		assert.Contains(t, gen.prompt, "WiFi is down")
	})

	t.Run("matches become numbered context", func(t *testing.T) {
		gen := &stubGenerator{reply: "ok"}
		matches := []domain.DocumentMatch{
			{Content: "Replace the access point", Similarity: 0.912},
			{Content: "Power cycle the switch", Similarity: 0.75},
		}
		svc := NewSuggestionService(stubEmbedder{vector: vector(3)}, gen, stubMatcher{matches: matches}, nil)
		svc.Suggest(context.Background(), "WiFi is down")
		assert.Contains(t, gen.prompt, "Solution 1 (Similarity: 91.2%):\nReplace the access point\n\n---\n\nSolution 2 (Similarity: 75.0%):\nPower cycle the switch")
	})

	failures := map[string]*SuggestionService{
		"embedder":  NewSuggestionService(stubEmbedder{err: errors.New("quota")}, &stubGenerator{}, stubMatcher{}, nil),
		"matcher":   NewSuggestionService(stubEmbedder{vector: vector(3)}, &stubGenerator{}, stubMatcher{err: errors.New("db down")}, nil),
		"generator": NewSuggestionService(stubEmbedder{vector: vector(3)}, &stubGenerator{err: errors.New("timeout")}, stubMatcher{}, nil),
	}
	for name, svc := range failures {
		t.Run(name+" failure falls back", func(t *testing.T) {
			assert.Equal(t, SuggestionFallback, svc.Suggest(context.Background(), "x"))
		})
	}
}

func TestAnalyticsService_Summary(t *testing.T) {
	store := memory.NewStore()
	owner := createUser(t, store, "JD01", "", domain.UserRoleUser)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		category := string(rune('A' + i))
		require.NoError(t, store.Tickets().Create(ctx, &domain.Ticket{UserID: owner.ID, Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow, Category: &category}))
	}

	stats, err := NewAnalyticsService(store.Tickets()).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalTickets)
	assert.Len(t, stats.ByCategory, topCategories)
}

func TestNotificationService(t *testing.T) {
	resolved := events.TicketStatusChangedPayload{
		OldStatus:  domain.TicketStatusInProgress,
		NewStatus:  domain.TicketStatusResolved,
		Note:       "Replaced the **router**.",
		Title:      "WiFi down",
		OwnerName:  "John Doe",
		OwnerEmail: "john@voicebox.com",
	}

	t.Run("resolved with email sends mail", func(t *testing.T) {
		dispatcher := events.NewInMemoryDispatcher(nil)
		mailer := &recordingMailer{}
		dispatcher.Subscribe(events.EventTicketStatusChanged, NewNotificationService(mailer, markdown.NewRenderer(), nil).HandleStatusChanged)

		require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventTicketStatusChanged, 1, nil, resolved)))
		require.Len(t, mailer.sent, 1)
		msg := mailer.sent[0]
		assert.Equal(t, "john@voicebox.com", msg.To)
		assert.Equal(t, ResolvedSubject, msg.Subject)
		assert.Contains(t, msg.Text, "Replaced the **router**.")
		assert.Contains(t, msg.HTML, "<strong>router</strong>")
	})

	t.Run("no email or not resolved skips", func(t *testing.T) {
		dispatcher := events.NewInMemoryDispatcher(nil)
		mailer := &recordingMailer{}
		dispatcher.Subscribe(events.EventTicketStatusChanged, NewNotificationService(mailer, markdown.NewRenderer(), nil).HandleStatusChanged)

		noEmail := resolved
		noEmail.OwnerEmail = ""
		inProgress := resolved
		inProgress.NewStatus = domain.TicketStatusInProgress
		for _, p := range []events.TicketStatusChangedPayload{noEmail, inProgress} {
			require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventTicketStatusChanged, 1, nil, p)))
		}
		assert.Empty(t, mailer.sent)
	})

	t.Run("delivery failures are logged not returned", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		svc := NewNotificationService(&recordingMailer{err: mail.ErrNotConfigured}, nil, zap.New(core))
		err := svc.HandleStatusChanged(context.Background(), events.NewEvent(events.EventTicketStatusChanged, 1, nil, resolved))
		require.NoError(t, err)

		svc.mailer = &recordingMailer{err: errors.New("connection refused")}
		err = svc.HandleStatusChanged(context.Background(), events.NewEvent(events.EventTicketStatusChanged, 1, nil, resolved))
		require.NoError(t, err)

		var messages []string
		for _, entry := range logs.All() {
			messages = append(messages, entry.Message)
			assert.Equal(t, "mailer", entry.ContextMap()["component"])
		}
		assert.True(t, strings.Contains(strings.Join(messages, "|"), "SMTP credentials not set"))
		assert.Contains(t, messages, "resolution mail failed")
	})
}
