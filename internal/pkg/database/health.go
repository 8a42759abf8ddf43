package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Health pings the backing stores and reports "ok", "down" or "disabled" per store.
func Health(ctx context.Context, db *sqlx.DB, rdb *redis.Client) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"postgres": "ok", "redis": "disabled"}
	if db == nil || db.PingContext(ctx) != nil {
		status["postgres"] = "down"
	}
	if rdb != nil {
		status["redis"] = "ok"
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
		}
	}
	return status
}
