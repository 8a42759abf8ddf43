package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/learnhub/credits-api/internal/config"
	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/inventory"
	"github.com/learnhub/credits-api/internal/domain/leaderboard"
	"github.com/learnhub/credits-api/internal/domain/reconciliation"
	"github.com/learnhub/credits-api/internal/domain/store"
	"github.com/learnhub/credits-api/internal/domain/transaction"
	"github.com/learnhub/credits-api/internal/pkg/database"
	"github.com/learnhub/credits-api/internal/pkg/keylock"
	"github.com/learnhub/credits-api/internal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "creditsctl",
	Short:         "Operate the LearnHub credits service",
	Long:          `Administrative commands that run directly against the credits database: catalog seeding, ledger reconciliation and manual awards.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app holds the services a command needs. close releases connections.
type app struct {
	db             *sqlx.DB
	rdb            *redis.Client
	accounts       *account.Service
	catalog        *store.Service
	reconciliation *reconciliation.Service
}

func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, LogFile: cfg.LogFile}); err != nil {
		return nil, err
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		database.ClosePostgres(db)
		return nil, err
	}

	rdb, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		database.ClosePostgres(db)
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	locks := keylock.New()
	inventoryRepo := inventory.NewRepository(db)
	board := leaderboard.NewService(leaderboard.NewRepository(db), leaderboard.NewRedisCache(rdb, cfg.LeaderboardCacheTTL))
	accounts := account.NewService(account.NewRepository(db, transaction.NewRepository(db)), locks, board)

	return &app{
		db:             db,
		rdb:            rdb,
		accounts:       accounts,
		catalog:        store.NewService(store.NewRepository(db), accounts, inventory.NewService(inventoryRepo, locks), nil),
		reconciliation: reconciliation.NewService(reconciliation.NewRepository(db)),
	}, nil
}

func (a *app) close() {
	database.CloseRedis(a.rdb)
	database.ClosePostgres(a.db)
}
