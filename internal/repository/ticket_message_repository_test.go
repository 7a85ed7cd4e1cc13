package repository_test

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
)

func TestMessageRepository_ListByTicketAttachesSender(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "ticket_id", "sender_id", "content", "created_at", "name", "email", "role"}).
		AddRow(int64(1), int64(4), int64(2), "Any update?", fixedTime, "John Doe", "john@voicebox.com", domain.UserRoleUser).
		AddRow(int64(2), int64(4), int64(1), "Technician on the way", fixedTime.Add(60), "Admin User", "admin@voicebox.com", domain.UserRoleAdmin)
	mock.ExpectQuery(`ORDER BY m.created_at ASC`).WithArgs(int64(4)).WillReturnRows(rows)

	messages, err := repository.NewMessageRepository(mock).ListByTicket(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.UserRoleAdmin, messages[1].Sender.Role)
	assert.Equal(t, int64(1), messages[1].Sender.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
