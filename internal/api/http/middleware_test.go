package http

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTimeoutMiddleware_ExemptsStreams(t *testing.T) {
	app := fiber.New()
	app.Use(requestTimeoutMiddleware(time.Second))
	hasDeadline := func(c *fiber.Ctx) error {
		if _, ok := c.UserContext().Deadline(); ok {
			return c.SendString("deadline")
		}
		return c.SendString("none")
	}
	app.Get("/tickets/:id", hasDeadline)
	app.Get("/tickets/:id/stream", hasDeadline)

	tests := []struct {
		path string
		want string
	}{
		{"/tickets/1", "deadline"},
		{"/tickets/1/stream", "none"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
