package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/edenv/walletvault/internal/adapter/http"
	"github.com/edenv/walletvault/internal/adapter/http/handler"
	postgresRepo "github.com/edenv/walletvault/internal/adapter/repository/postgres"
	redisRepo "github.com/edenv/walletvault/internal/adapter/repository/redis"
	"github.com/edenv/walletvault/internal/infrastructure/auth"
	"github.com/edenv/walletvault/internal/infrastructure/config"
	"github.com/edenv/walletvault/internal/infrastructure/logger"
	"github.com/edenv/walletvault/internal/infrastructure/metrics"
	"github.com/edenv/walletvault/internal/infrastructure/postgres"
	"github.com/edenv/walletvault/internal/infrastructure/redis"
	"github.com/edenv/walletvault/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)

	connectCancel()

	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	walletLogRepo := postgresRepo.NewWalletLogRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	pinHasher := auth.NewBcryptPinHasher(cfg.BcryptCost)

	// Use cases
	transferUC := usecase.NewTransferUseCase(txManager, walletRepo, walletLogRepo, transactionRepo, pinHasher, idGen, retrier).
		WithTimeout(cfg.TransferTimeout)
	walletUC := usecase.NewWalletUseCase(walletRepo, walletLogRepo, pinHasher)

	m := metrics.New()

	// Handlers
	walletHandler := handler.NewWalletHandler(walletUC).WithMetrics(m)
	transferHandler := handler.NewTransferHandler(transferUC).WithMetrics(m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		WalletHandler:    walletHandler,
		TransferHandler:  transferHandler,
		HealthHandler:    healthHandler,
		Logger:           log,
		Metrics:          m,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		JWTManager:       jwtManager,
		AuthEnabled:      cfg.AuthEnabled,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
