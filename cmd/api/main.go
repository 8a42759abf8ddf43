package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/learnhub/credits-api/internal/config"
	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/completion"
	"github.com/learnhub/credits-api/internal/domain/inventory"
	"github.com/learnhub/credits-api/internal/domain/leaderboard"
	"github.com/learnhub/credits-api/internal/domain/purchase"
	"github.com/learnhub/credits-api/internal/domain/reconciliation"
	"github.com/learnhub/credits-api/internal/domain/store"
	"github.com/learnhub/credits-api/internal/domain/transaction"
	"github.com/learnhub/credits-api/internal/middleware"
	"github.com/learnhub/credits-api/internal/pkg/database"
	"github.com/learnhub/credits-api/internal/pkg/jwt"
	"github.com/learnhub/credits-api/internal/pkg/keylock"
	"github.com/learnhub/credits-api/internal/pkg/logger"
	"github.com/learnhub/credits-api/internal/pkg/metrics"
	"github.com/learnhub/credits-api/internal/pkg/response"
	"github.com/learnhub/credits-api/internal/pkg/storage"
)

type handlers struct {
	account        *account.Handler
	transaction    *transaction.Handler
	store          *store.Handler
	purchase       *purchase.Handler
	inventory      *inventory.Handler
	leaderboard    *leaderboard.Handler
	completion     *completion.Handler
	reconciliation *reconciliation.Handler
}

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting LearnHub credits API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	rdb, err := database.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	var files storage.Storage
	if cfg.StorageEnabled() {
		r2, err := storage.NewR2Storage(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 storage")
		}
		files = r2
	} else {
		log.Warn().Msg("R2 storage not configured, item artwork upload disabled")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	ledgerRepo := transaction.NewRepository(db)
	accountRepo := account.NewRepository(db, ledgerRepo)
	storeRepo := store.NewRepository(db)
	inventoryRepo := inventory.NewRepository(db)
	purchaseRepo := purchase.NewRepository(db, accountRepo, inventoryRepo)
	leaderboardRepo := leaderboard.NewRepository(db)
	reconciliationRepo := reconciliation.NewRepository(db)

	// ---------- Services ----------
	// One locker for every balance-mutating service.
	locks := keylock.New()

	leaderboardService := leaderboard.NewService(leaderboardRepo, leaderboard.NewRedisCache(rdb, cfg.LeaderboardCacheTTL))
	accountService := account.NewService(accountRepo, locks, leaderboardService)
	transactionService := transaction.NewService(ledgerRepo)
	inventoryService := inventory.NewService(inventoryRepo, locks)
	storeService := store.NewService(storeRepo, accountService, inventoryService, files)
	purchaseService := purchase.NewService(storeService, accountService, inventoryRepo, purchaseRepo, locks)
	completionService := completion.NewService(accountService,
		int64(cfg.ModuleCompletionCredits), int64(cfg.CourseCompletionCredits))
	reconciliationService := reconciliation.NewService(reconciliationRepo)

	h := handlers{
		account:        account.NewHandler(accountService),
		transaction:    transaction.NewHandler(transactionService),
		store:          store.NewHandler(storeService),
		purchase:       purchase.NewHandler(purchaseService),
		inventory:      inventory.NewHandler(inventoryService),
		leaderboard:    leaderboard.NewHandler(leaderboardService),
		completion:     completion.NewHandler(completionService),
		reconciliation: reconciliation.NewHandler(reconciliationService),
	}

	// ---------- Background jobs ----------
	var reconciler *reconciliation.Worker
	if cfg.ReconcileEnabled {
		reconciler = reconciliation.NewWorker(reconciliationService, cfg.ReconcileInterval)
		if err := reconciler.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start reconciliation worker")
		}
	}

	r := newRouter(cfg, h, middleware.Auth(jwtService), healthHandler(db, rdb))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if reconciler != nil {
		reconciler.Stop()
	}

	log.Info().Msg("Server exited properly")
}

func newRouter(cfg *config.Config, h handlers, authMiddleware func(http.Handler) http.Handler, health http.HandlerFunc) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", health)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/credits/account", h.account.Routes(authMiddleware))
		r.Mount("/credits/transactions", h.transaction.Routes(authMiddleware))

		r.Route("/store", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/items", h.store.List)
			r.Get("/available", h.store.Available)
			r.Post("/items/{id}/purchase", h.purchase.Purchase)
		})

		r.Mount("/inventory", h.inventory.InventoryRoutes(authMiddleware))
		r.Mount("/profile", h.inventory.ProfileRoutes(authMiddleware))
		r.Mount("/leaderboard", h.leaderboard.Routes(authMiddleware))
	})

	r.Mount("/internal/v1/completions", h.completion.Routes(middleware.ServiceToken(cfg.CatalogServiceToken)))

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())

		r.Mount("/students/{id}/credits", h.account.AdminRoutes())
		r.Get("/transactions", h.transaction.Search)
		r.Mount("/store/items", h.store.AdminRoutes())
		r.Mount("/reconciliation", h.reconciliation.AdminRoutes())
	})

	return r
}

func healthHandler(db *sqlx.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := database.Health(r.Context(), db, rdb)
		if status["postgres"] != "ok" || status["redis"] == "down" {
			response.JSON(w, http.StatusServiceUnavailable, status)
			return
		}
		response.OK(w, status)
	}
}
