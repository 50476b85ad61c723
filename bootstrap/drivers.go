package bootstrap

import (
	"context"
	"fmt"
	"time"

	"embedding-indexer/config"
	"embedding-indexer/driver"
	"embedding-indexer/logger"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxConnectAttempts = 5

// initPool connects to Postgres with retries so the service survives the
// database coming up after it during deploys.
func initPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 30 * time.Second

	var pool *pgxpool.Pool
	var err error

	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		pool, err = driver.NewPool(ctx, cfg.Database.GetDatabaseURL())
		if err == nil {
			logger.Logger.Info("Connected to Postgres",
				"host", cfg.Database.Host,
				"database", cfg.Database.Name,
			)
			return pool, nil
		}

		if attempt == maxConnectAttempts {
			break
		}

		delay := bo.NextBackOff()
		logger.Logger.Warn("Postgres not ready, retrying",
			"attempt", attempt,
			"max", maxConnectAttempts,
			"retry_in", delay,
			"err", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("failed to connect to Postgres after %d attempts: %w", maxConnectAttempts, err)
}
