package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/idea-portal/internal/api/http"
	"github.com/spec-kit/idea-portal/internal/api/http/handlers"
	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/config"
	"github.com/spec-kit/idea-portal/internal/events"
	"github.com/spec-kit/idea-portal/internal/observability"
	"github.com/spec-kit/idea-portal/internal/persistence"
	"github.com/spec-kit/idea-portal/internal/repository"
	"github.com/spec-kit/idea-portal/internal/service"
	"github.com/spec-kit/idea-portal/internal/textgen"
	"github.com/spec-kit/idea-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.DB(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	db := pg.DB()
	userRepo := repository.NewUserRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, auth.DefaultTokenTTL)
	cookie := auth.NewSessionCookie(cfg.Auth.CookieName, cfg.Auth.CookieSecure)
	claims := auth.NewClaimsResolver(tokens)
	sessions := auth.NewSessionResolver(tokens, userRepo, logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifier := worker.StartNotificationWorker(ctx, dispatcher, service.NewNotificationService(logger, cfg.Notification), logger)

	authService := service.NewAuthService(userRepo, tokens, auth.NewPasswordHasher(cfg.Auth.BcryptCost))
	ideaService := service.NewIdeaService(service.IdeaDependencies{
		IdeaRepo:        ideaRepo,
		FeedbackRepo:    feedbackRepo,
		Generator:       textgen.NewClient(cfg.TextGen, logger),
		Limiter:         service.NewRedisGenerationLimiter(redis, cfg.Ideas.GenerationLimit, cfg.Ideas.GenerationWindow()),
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
		CheckUniqueness: cfg.Ideas.UniquenessCheck,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:         handlers.NewAuthHandler(authService, sessions, cookie),
		StudentIdeas: handlers.NewStudentIdeasHandler(ideaService),
		StaffIdeas:   handlers.NewStaffIdeasHandler(ideaService, sessions, cookie),
		Pages:        handlers.NewPagesHandler(claims, cookie),
		Gate:         auth.NewGate(claims, cookie),
		Edge:         auth.NewRouteMatcher(claims, cookie),
		Metrics:      metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	cancel()
	notifier.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
