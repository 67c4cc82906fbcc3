package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bookkeeper/internal/adapter/http"
	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	"github.com/iho/bookkeeper/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bookkeeper/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bookkeeper/internal/adapter/repository/redis"
	"github.com/iho/bookkeeper/internal/infrastructure/config"
	"github.com/iho/bookkeeper/internal/infrastructure/logger"
	"github.com/iho/bookkeeper/internal/infrastructure/metrics"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres"
	"github.com/iho/bookkeeper/internal/infrastructure/redis"
	"github.com/iho/bookkeeper/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Apply migrations
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, path, appLogger); err != nil {
			appLogger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	sourceRepo := postgresRepo.NewSourceRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	runRepo := postgresRepo.NewRunRepository(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	locker := redisRepo.NewAccountLocker(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	recalcUC := usecase.NewRecalculationUseCase(usecase.RecalculationConfig{
		Accounts:    accountRepo,
		Sources:     sourceRepo,
		LedgerRepo:  ledgerRepo,
		BalanceRepo: balanceRepo,
		RunRepo:     runRepo,
		TxManager:   txManager,
		Locker:      locker,
		Retrier:     retrier,
		IDGen:       idGen,
		Metrics:     appMetrics,
		Logger:      appLogger,
		LockTTL:     cfg.RecalcLockTTL,
	})
	ledgerUC := usecase.NewLedgerUseCase(balanceRepo, ledgerRepo, recalcUC)

	// Initialize handlers
	balanceHandler := handler.NewBalanceHandler(ledgerUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	recalcHandler := handler.NewRecalcHandler(recalcUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BalanceHandler: balanceHandler,
		LedgerHandler:  ledgerHandler,
		RecalcHandler:  recalcHandler,
		HealthHandler:  healthHandler,
		Logging:        middleware.NewLoggingMiddleware(appLogger),
		Metrics:        middleware.NewMetricsMiddleware(appMetrics),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
