package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("kanban/database")

// DB wraps the pgx pool shared by every request. The pool is safe for
// concurrent use and is the only shared mutable state in the service.
type DB struct {
	Pool   *pgxpool.Pool
	logger *zap.Logger
}

// Config tunes the connection pool. Zero values fall back to defaults.
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnectAttempts uint
}

func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 25
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = 5
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	pool, err := backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			logger.Warn("Database not reachable yet", zap.Error(err))
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return pool, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(attempts))
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established")
	return &DB{Pool: pool, logger: logger}, nil
}

// Ping reports whether the database answers.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
	db.logger.Info("Database connection closed")
}

// logDuration is deferred by each store operation.
func (db *DB) logDuration(op string, start time.Time, fields ...zap.Field) {
	fields = append(fields, zap.Duration("duration", time.Since(start)))
	db.logger.Debug(op, fields...)
}
