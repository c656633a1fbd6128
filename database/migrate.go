package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// MigrateCommand is a goose command understood by Migrate.
type MigrateCommand string

const (
	MigrateUp     MigrateCommand = "up"
	MigrateDown   MigrateCommand = "down"
	MigrateStatus MigrateCommand = "status"
)

// Migrate runs the embedded goose migrations against the pool. goose needs
// database/sql, so the pool is bridged through pgx's stdlib adapter.
func (db *DB) Migrate(ctx context.Context, command MigrateCommand, table string) error {
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer func() {
		if err := sqlDB.Close(); err != nil {
			db.logger.Warn("Failed to close migration connection", zap.Error(err))
		}
	}()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&gooseLogger{log: db.logger.Sugar()})
	if table != "" {
		goose.SetTableName(table)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, sqlDB, migrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, sqlDB, migrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, sqlDB, migrationsDir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations (%s): %w", command, err)
	}

	return nil
}

// gooseLogger routes goose output through zap. Fatalf is downgraded to an
// error so a failed migration returns instead of exiting the process.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.log.Errorf(format, v...)
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.log.Infof(format, v...)
}
