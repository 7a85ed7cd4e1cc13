package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/internal/repository/memory"
	"github.com/spec-kit/complaint-desk/internal/seed"
)

func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := seed.Repositories{Users: store.Users(), Tickets: store.Tickets(), Messages: store.Messages()}

	first, err := seed.Run(ctx, repos, bcrypt.MinCost, nil)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{Users: 5, Tickets: 4, Messages: 10}, first)

	second, err := seed.Run(ctx, repos, bcrypt.MinCost, nil)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{}, second)

	admin, err := store.Users().GetByLoginID(ctx, "ad01")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, admin.Role)
	assert.True(t, auth.VerifyPassword(admin.PasswordHash, seed.DemoPassword, false))

	resolved, err := store.Tickets().List(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusResolved}})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	msgs, err := store.Messages().ListByTicket(ctx, resolved[0].ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	assert.Equal(t, "Admin User", msgs[0].Sender.Name)
}
