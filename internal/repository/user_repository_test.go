package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
)

var fixedTime = time.Date(2024, 12, 1, 9, 30, 0, 0, time.UTC)

func userRow() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "login_id", "name", "email", "password", "role", "created_at", "updated_at"})
}

func TestUserRepository_GetByLoginID(t *testing.T) {
	tests := []struct {
		name      string
		loginID   string
		mockSetup func(pgxmock.PgxPoolIface)
		wantName  string
		wantErr   error
	}{
		{
			name:    "matches regardless of case",
			loginID: "jd01",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM users WHERE UPPER\(login_id\)=UPPER\(\$1\)`).
					WithArgs("jd01").
					WillReturnRows(userRow().AddRow(int64(2), "JD01", "John Doe", "john@voicebox.com", "hash", domain.UserRoleUser, fixedTime, fixedTime))
			},
			wantName: "John Doe",
		},
		{
			name:    "unknown login id",
			loginID: "ZZ99",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM users WHERE UPPER\(login_id\)`).
					WithArgs("ZZ99").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: pgx.ErrNoRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)
			repo := repository.NewUserRepository(mock)

			user, err := repo.GetByLoginID(context.Background(), tt.loginID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, user.Name)
				assert.Equal(t, "JD01", user.LoginID)
				assert.Equal(t, "hash", user.PasswordHash)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("NEW1", "New Person", "new@voicebox.com", "hashed", domain.UserRoleUser).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), fixedTime, fixedTime))

	user := &domain.User{LoginID: "NEW1", Name: "New Person", Email: "new@voicebox.com", PasswordHash: "hashed", Role: domain.UserRoleUser}
	require.NoError(t, repository.NewUserRepository(mock).Create(context.Background(), user))

	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, fixedTime, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListWithTicketCounts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "login_id", "name", "email", "role", "created_at", "updated_at", "ticket_count"}).
		AddRow(int64(5), "HR01", "HR Officer", "hr@voicebox.com", domain.UserRoleHR, fixedTime, fixedTime, 0).
		AddRow(int64(2), "JD01", "John Doe", "john@voicebox.com", domain.UserRoleUser, fixedTime.Add(-time.Hour), fixedTime, 3)
	mock.ExpectQuery(`ORDER BY u.created_at DESC`).WillReturnRows(rows)

	users, err := repository.NewUserRepository(mock).ListWithTicketCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "HR01", users[0].LoginID)
	assert.Equal(t, 3, users[1].TicketCount)
	assert.Empty(t, users[1].PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}
