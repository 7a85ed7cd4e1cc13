package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository/memory"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	tok, err := tm.GenerateToken(&domain.User{ID: 12, Role: domain.UserRoleHR})
	require.NoError(t, err)
	assert.Equal(t, int64(12), tok.UserID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.ExpiresAt, time.Minute)

	claims, err := tm.ParseToken(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(12), claims.UserID)
	assert.Equal(t, domain.UserRoleHR, claims.Role)
	assert.Equal(t, "12", claims.Subject)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tok, err := tm.GenerateToken(&domain.User{ID: 1, Role: domain.UserRoleUser})
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", 1).ParseToken(tok.Value)
	assert.Error(t, err, "wrong secret")

	expired := NewTokenManager("secret", 1)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ParseToken(tok.Value)
	assert.Error(t, err, "expired")

	_, err = tm.ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name           string
		stored         string
		plain          string
		allowPlaintext bool
		want           bool
	}{
		{"bcrypt match", hash, "123456", false, true},
		{"bcrypt mismatch", hash, "654321", true, false},
		{"plaintext refused by default", "123456", "123456", false, false},
		{"plaintext allowed by switch", "123456", "123456", true, true},
		{"plaintext mismatch", "123456", "12345", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.stored, tt.plain, tt.allowPlaintext))
		})
	}
}

func newTestApp(t *testing.T) (*fiber.App, *TokenManager, map[domain.UserRole]*domain.User) {
	t.Helper()
	store := memory.NewStore()
	users := map[domain.UserRole]*domain.User{}
	for _, role := range []domain.UserRole{domain.UserRoleAdmin, domain.UserRoleUser} {
		u := &domain.User{LoginID: string(role), Name: string(role), Role: role, PasswordHash: "x"}
		require.NoError(t, store.Users().Create(context.Background(), u))
		users[role] = u
	}

	tm := NewTokenManager("secret", 5)
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		var de *apperrors.DomainError
		if errors.As(err, &de) {
			return c.Status(de.HTTPStatus).SendString(de.Message)
		}
		return c.SendStatus(http.StatusInternalServerError)
	}})
	mw := NewAuthMiddleware(tm, store.Users())
	app.Get("/admin", mw.Handle, RequireRole(domain.UserRoleAdmin), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		assert.Empty(t, p.User.PasswordHash)
		return c.SendString(p.User.Name)
	})
	app.Get("/any", mw.Handle, RequireAnyRole(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	app.Get("/stream", mw.HandleStream, RequireAnyRole(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	return app, tm, users
}

func TestAuthMiddleware(t *testing.T) {
	app, tm, users := newTestApp(t)
	adminTok, err := tm.GenerateToken(users[domain.UserRoleAdmin])
	require.NoError(t, err)
	userTok, err := tm.GenerateToken(users[domain.UserRoleUser])
	require.NoError(t, err)
	ghostTok, err := tm.GenerateToken(&domain.User{ID: 999, Role: domain.UserRoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/any", "", http.StatusUnauthorized},
		{"wrong scheme", "/any", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/any", "Bearer abc", http.StatusUnauthorized},
		{"deleted user", "/any", "Bearer " + ghostTok.Value, http.StatusUnauthorized},
		{"any role ok", "/any", "Bearer " + userTok.Value, http.StatusNoContent},
		{"role gate forbids", "/admin", "Bearer " + userTok.Value, http.StatusForbidden},
		{"role gate allows", "/admin", "Bearer " + adminTok.Value, http.StatusOK},
		{"query token ignored outside streams", "/any?token=" + userTok.Value, "", http.StatusUnauthorized},
		{"stream accepts query token", "/stream?token=" + userTok.Value, "", http.StatusNoContent},
		{"stream accepts header", "/stream", "Bearer " + userTok.Value, http.StatusNoContent},
		{"stream without token", "/stream", "", http.StatusUnauthorized},
		{"stream garbage query token", "/stream?token=abc", "", http.StatusUnauthorized},
		{"stream deleted user", "/stream?token=" + ghostTok.Value, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
