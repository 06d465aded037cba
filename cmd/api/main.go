package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/incident-report-service/internal/api/http"
	"github.com/spec-kit/incident-report-service/internal/api/http/handlers"
	"github.com/spec-kit/incident-report-service/internal/auth"
	"github.com/spec-kit/incident-report-service/internal/cache"
	"github.com/spec-kit/incident-report-service/internal/config"
	"github.com/spec-kit/incident-report-service/internal/events"
	"github.com/spec-kit/incident-report-service/internal/observability"
	"github.com/spec-kit/incident-report-service/internal/persistence"
	"github.com/spec-kit/incident-report-service/internal/repository"
	"github.com/spec-kit/incident-report-service/internal/service"
	"github.com/spec-kit/incident-report-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		reportRepo  repository.ReportRepository
		userRepo    repository.UserRepository
		historyRepo repository.ReportStatusHistoryRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		reportRepo = repository.NewReportRepository(pool)
		userRepo = repository.NewUserRepository(pool)
		historyRepo = repository.NewReportStatusHistoryRepository(pool)
	} else {
		logger.Warn("running with in-memory repositories; data will not survive restarts")
		reportRepo = repository.NewMemoryReportRepository()
		userRepo = repository.NewMemoryUserRepository()
		historyRepo = repository.NewMemoryReportStatusHistoryRepository()
	}

	var listingCache *cache.ReportCache
	if cfg.Cache.Enabled {
		listingCache = cache.NewReportCache(redis.Client, cfg.Cache.TTL(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	accountService := service.NewAccountService(cfg.Auth, userRepo)
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:  reportRepo,
		UserRepo:    userRepo,
		HistoryRepo: historyRepo,
		Cache:       listingCache,
		Dispatcher:  dispatcher,
	})
	authMiddleware := auth.NewAuthMiddleware(accountService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:            cfg.App.RequestTimeout(),
		ExposeErrorDetails: cfg.App.ExposeErrorDetails,
	})

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	accountsHandler := handlers.NewAccountsHandler(accountService)
	reportsHandler := handlers.NewReportsHandler(reportService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Accounts:       accountsHandler,
		Reports:        reportsHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
