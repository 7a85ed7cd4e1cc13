package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/ai"
	httptransport "github.com/spec-kit/complaint-desk/internal/api/http"
	"github.com/spec-kit/complaint-desk/internal/api/http/handlers"
	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/mail"
	"github.com/spec-kit/complaint-desk/internal/markdown"
	"github.com/spec-kit/complaint-desk/internal/observability"
	"github.com/spec-kit/complaint-desk/internal/persistence"
	"github.com/spec-kit/complaint-desk/internal/realtime"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/internal/repository/memory"
	"github.com/spec-kit/complaint-desk/internal/seed"
	"github.com/spec-kit/complaint-desk/internal/service"
	"github.com/spec-kit/complaint-desk/internal/storage"
	"github.com/spec-kit/complaint-desk/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

type repositories struct {
	users     repository.UserRepository
	tickets   repository.TicketRepository
	messages  repository.MessageRepository
	documents repository.DocumentRepository
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect postgres", zap.Error(err))
		return err
	}
	defer pg.Close()

	repos, err := openRepositories(ctx, cfg, pg, logger)
	if err != nil {
		return err
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	var broker realtime.Broker = realtime.NewMemoryBroker()
	if redis.Enabled() {
		broker = realtime.NewRedisBroker(redis.Client, logger)
	}

	model, closeModel := openModel(ctx, cfg.Gemini, logger)
	defer closeModel()

	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()
	renderer := markdown.NewRenderer()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repos.tickets,
		MessageRepo: repos.messages,
		UserRepo:    repos.users,
		Classifier:  ai.NewAnalyzer(model),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	messageService := service.NewMessageService(repos.tickets, repos.messages, repos.users, dispatcher)
	authService := service.NewAuthService(cfg.Auth, repos.users, tokens)
	userService := service.NewUserService(repos.users, cfg.Auth.BcryptCost)
	analyticsService := service.NewAnalyticsService(repos.tickets)
	knowledgeService := service.NewKnowledgeService(repos.documents, model)
	suggestionService := service.NewSuggestionService(model, model, repos.documents, logger)
	notificationService := service.NewNotificationService(mail.NewSMTPMailer(cfg.SMTP), renderer, logger)

	worker.StartNotificationWorker(dispatcher, notificationService, logger)
	worker.StartRealtimeRelay(dispatcher, broker, logger)

	images := storage.NewImageStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Stream:         handlers.NewStreamHandler(ticketService, broker, 0, logger),
		Chat:           handlers.NewChatHandler(messageService),
		RAG:            handlers.NewRAGHandler(knowledgeService, suggestionService, renderer),
		Admin:          handlers.NewAdminHandler(analyticsService, metrics),
		Users:          handlers.NewUsersHandler(userService),
		Upload:         handlers.NewUploadHandler(images),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.users),
		UploadDir:      images.Dir(),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("graceful shutdown incomplete", zap.Error(err))
	}
	return nil
}

// openRepositories uses Postgres when configured and otherwise an in-memory store preloaded
// with the demo data.
func openRepositories(ctx context.Context, cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) (repositories, error) {
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger, false); err != nil {
				logger.Error("failed to run migrations", zap.Error(err))
				return repositories{}, err
			}
		}
		pool := pg.PoolHandle()
		return repositories{
			users:     repository.NewUserRepository(pool),
			tickets:   repository.NewTicketRepository(pool),
			messages:  repository.NewMessageRepository(pool),
			documents: repository.NewDocumentRepository(pool),
		}, nil
	}

	logger.Warn("running on in-memory storage; data is lost on restart")
	store := memory.NewStore()
	repos := repositories{
		users:     store.Users(),
		tickets:   store.Tickets(),
		messages:  store.Messages(),
		documents: store.Documents(),
	}
	if _, err := seed.Run(ctx, seed.Repositories{Users: repos.users, Tickets: repos.tickets, Messages: repos.messages}, cfg.Auth.BcryptCost, logger); err != nil {
		return repositories{}, err
	}
	return repos, nil
}

type languageModel interface {
	ai.Generator
	ai.Embedder
}

func openModel(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (languageModel, func()) {
	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; classification falls back to defaults and suggestions are unavailable")
		return ai.Unavailable{}, func() {}
	}
	client, err := ai.NewGeminiClient(ctx, cfg)
	if err != nil {
		logger.Warn("gemini client unavailable", zap.Error(err))
		return ai.Unavailable{}, func() {}
	}
	return client, client.Close
}
