package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edenv/walletvault/internal/adapter/http/handler"
	"github.com/edenv/walletvault/internal/adapter/http/middleware"
	"github.com/edenv/walletvault/internal/infrastructure/auth"
	"github.com/edenv/walletvault/internal/infrastructure/metrics"
	"github.com/edenv/walletvault/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler   *handler.WalletHandler
	TransferHandler *handler.TransferHandler
	HealthHandler   *handler.HealthHandler

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	JWTManager  *auth.JWTManager
	AuthEnabled bool
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Metrics)
		r.Use(limiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthEnabled && cfg.JWTManager != nil {
			r.Use(middleware.Auth(cfg.JWTManager))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Metrics)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", cfg.WalletHandler.Create)
			r.Get("/{address}", cfg.WalletHandler.Get)
			r.Get("/{address}/logs", cfg.WalletHandler.ListLogs)
			r.Get("/{address}/transactions", cfg.TransferHandler.ListByWallet)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/{hash}", cfg.TransferHandler.Get)
		})
	})

	return r
}
