package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/internal/auth/store/drivers/postgres"
	redisdrv "github.com/aussiebroadwan/otpauth/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/otpauth/internal/auth/store/drivers/sqlite"
)

const (
	connectAttempts = 5
	connectBackoff  = 500 * time.Millisecond
)

// connectWithRetry retries fn with exponential backoff. Only startup
// connections go through here; request handling never retries.
func connectWithRetry[T any](ctx context.Context, log *slog.Logger, target string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	backoff := retry.WithMaxRetries(connectAttempts, retry.NewExponential(connectBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			log.Warn("connection failed, retrying", "target", target, "err", err)
			return retry.RetryableError(err)
		}
		out = v
		return nil
	})
	return out, err
}

// OpenStore connects to the configured identity registry and applies
// migrations.
func OpenStore(ctx context.Context, cfg Config, log *slog.Logger) (store.Store, error) {
	var (
		db  store.Store
		err error
	)

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = connectWithRetry(ctx, log, "postgres", func(ctx context.Context) (store.Store, error) {
			pg, err := postgres.NewStore(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return nil, err
			}
			return pg, nil
		})
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	log.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)
	return db, nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.db = db
	return nil
}

// initLedger picks where challenge attempts and redemptions are recorded:
// nowhere, Redis, or the identity database.
func (app *Application) initLedger(ctx context.Context) error {
	if app.cfg.Ledger == LedgerOff {
		app.logger.Warn("challenge ledger disabled: codes are reusable until they expire")
		return nil
	}

	if app.cfg.RedisURL == "" {
		app.ledger = app.db.Challenges()
		return nil
	}

	rdb, err := connectWithRetry(ctx, app.logger, "redis", func(ctx context.Context) (*goredis.Client, error) {
		return redisdrv.NewClient(ctx, app.cfg.RedisURL)
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	ledger := redisdrv.NewLedger(rdb)
	app.redis = rdb
	app.ledger = ledger
	app.probe = ledger
	return nil
}
