package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/api/http/handlers"
	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Stream         *handlers.StreamHandler
	Chat           *handlers.ChatHandler
	RAG            *handlers.RAGHandler
	Admin          *handlers.AdminHandler
	Users          *handlers.UsersHandler
	Upload         *handlers.UploadHandler
	AuthMiddleware *auth.AuthMiddleware
	// UploadDir is served under /uploads when set.
	UploadDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.UploadDir != "" {
		app.Static("/uploads", cfg.UploadDir)
	}

	app.Post("/auth/login", cfg.Auth.Login)

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole()}
	staff := auth.RequireRole(domain.UserRoleAdmin, domain.UserRoleStaff)

	// Registered ahead of the /tickets group so the query token is honored.
	app.Get("/tickets/:id/stream", cfg.AuthMiddleware.HandleStream, auth.RequireAnyRole(), cfg.Stream.Stream)

	tickets := app.Group("/tickets", authenticated...)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Patch("/", staff, cfg.Tickets.UpdateStatus)
	tickets.Get("/:id", cfg.Tickets.GetTicket)

	app.Post("/chat/send", append(authenticated, cfg.Chat.Send)...)
	app.Post("/upload", append(authenticated, cfg.Upload.Upload)...)

	rag := app.Group("/rag", append(authenticated, staff)...)
	rag.Post("/upload", cfg.RAG.Upload)
	rag.Get("/documents", cfg.RAG.Documents)
	rag.Post("/suggest", cfg.RAG.Suggest)

	admin := app.Group("/admin", authenticated...)
	admin.Get("/analytics", staff, cfg.Admin.Analytics)
	admin.Get("/metrics", auth.RequireRole(domain.UserRoleAdmin), cfg.Admin.Metrics)

	hr := app.Group("/hr", append(authenticated, auth.RequireRole(domain.UserRoleHR, domain.UserRoleAdmin))...)
	hr.Get("/users", cfg.Users.List)
	hr.Post("/users", cfg.Users.Create)
}
