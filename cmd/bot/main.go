package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/api"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/app"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/config"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/controller/handlers"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository/base"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/service"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/timeutil"
)

const (
	dbConnectAttempts = 5
	shutdownTimeout   = 10 * time.Second
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)

	defer logger.Sync()

	logger.Sugar().Infow("Starting BeautyAssist bot",
		"environment", cfg.Environment,
		"token_length", len(cfg.BotToken))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// База данных
	pool := connectDB(ctx, cfg.DBDSN, logger)
	defer pool.Close()

	// Миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("Failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrator.Close()

	// Часовые пояса и часы
	tz, err := timeutil.NewResolver(cfg.DefaultTimezone)
	if err != nil {
		logger.Fatal("Failed to init timezone resolver", zap.Error(err))
	}
	clock := timeutil.SystemClock{}

	// Репозитории
	masterRepo := repository.NewMasterRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	promoRepo := repository.NewPromoRepository(pool)
	txManager := base.NewTxManager(pool)

	// Сервисы
	masterService := service.NewMasterService(masterRepo, tz, clock, logger)
	clientService := service.NewClientService(clientRepo, logger)
	catalogService := service.NewCatalogService(serviceRepo, logger)
	appointmentService := service.NewAppointmentService(
		txManager,
		masterRepo,
		clientRepo,
		serviceRepo,
		appointmentRepo,
		&reminderLog{logger: logger},
		tz,
		clock,
		logger,
	)
	promoService := service.NewPromoService(txManager, promoRepo, validator.New(), clock, logger)

	// Метрики и фоновые задачи
	metrics := app.NewMetrics()

	scheduler := app.NewScheduler(promoService, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Админский API
	adminServer := api.NewServer(cfg.AdminAddr, cfg.AdminToken, promoService, metrics, logger)
	go func() {
		if err := adminServer.Start(); err != nil {
			logger.Error("Admin API stopped with error", zap.Error(err))
		}
	}()

	// Телеграм-бот
	cmdHandlers := handlers.NewHandlers(
		masterService,
		clientService,
		catalogService,
		appointmentService,
		promoService,
		tz,
		clock,
		metrics,
		cfg.SubscriptionPrice,
		logger,
	)

	botInstance, err := bot.New(cfg.BotToken, bot.WithDefaultHandler(cmdHandlers.HandleUnknown))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(botInstance, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register bot handlers", zap.Error(err))
	}

	// Блокируется до SIGINT/SIGTERM
	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Admin API forced to shutdown", zap.Error(err))
	}

	logger.Info("Stopped gracefully")
}

// connectDB открывает пул и ждёт готовности базы с фибоначчиевым бэкоффом
func connectDB(ctx context.Context, dsn string, logger *zap.Logger) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}

	backoff := retry.WithMaxRetries(dbConnectAttempts, retry.NewFibonacci(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("Database not ready, retrying", zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	logger.Info("Connected to database")
	return pool
}

// reminderLog заглушка планировщика напоминаний: доставка уведомлений
// живёт в отдельном сервисе, здесь фиксируем только отмены
type reminderLog struct {
	logger *zap.Logger
}

func (r *reminderLog) CancelForAppointment(appointmentID int64) {
	r.logger.Debug("Reminders cancelled for appointment", zap.Int64("appointment_id", appointmentID))
}
