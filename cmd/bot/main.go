package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/postqueue_bot/internal/app"
	"github.com/Freeeeeet/postqueue_bot/internal/config"
	"github.com/Freeeeeet/postqueue_bot/internal/controller"
	"github.com/Freeeeeet/postqueue_bot/internal/controller/state"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"github.com/Freeeeeet/postqueue_bot/internal/repository"
	"github.com/Freeeeeet/postqueue_bot/internal/repository/firestore"
	"github.com/Freeeeeet/postqueue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		app.StderrFallback().Fatal("Failed to load config", zap.Error(err))
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogFile)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting post queue bot",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageBackend),
		zap.String("timezone", cfg.Location.String()))

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to PostgreSQL")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Операторы и история всегда в PostgreSQL
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewScheduleEventRepository(pool)

	var (
		postRepo     queue.PostRepository
		timeslotRepo queue.TimeslotRepository
		clientRepo   service.ClientStore
	)
	switch cfg.StorageBackend {
	case config.StorageFirestore:
		store, err := firestore.Open(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile, cfg.AgencyID)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("✅ Connected to Firestore", zap.String("project_id", cfg.FirebaseProjectID))

		postRepo = firestore.NewPostRepository(store, cfg.Location)
		timeslotRepo = firestore.NewTimeslotRepository(store)
		clientRepo = firestore.NewClientRepository(store)
	default:
		postRepo = repository.NewPostRepository(pool)
		timeslotRepo = repository.NewTimeslotRepository(pool)
		clientRepo = repository.NewClientRepository(pool)
	}

	userService := service.NewUserService(userRepo, clientRepo, cfg.AgencyID, logger)
	queueService := service.NewQueueService(postRepo, timeslotRepo, clientRepo, eventRepo, cfg.Location, cfg.SessionTTL, logger)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	stateManager := state.NewManager()
	botController := controller.NewBotController(b, userService, queueService, stateManager, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(queueService, cfg.RefreshInterval, logger).
		WithDialogs(stateManager, cfg.SessionTTL)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if err := botController.Start(ctx); err != nil {
		return err
	}

	logger.Info("Shutting down", zap.Int("open_sessions", queueService.SessionCount()))
	return nil
}
