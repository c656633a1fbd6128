package main

import (
	"context"
	"kanban/config"
	"kanban/database"
	"kanban/logger"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

type Globals struct {
	Config *config.Config
	Logger *zap.Logger
}

type UpCmd struct{}

func (c *UpCmd) Run(ctx context.Context, globals *Globals) error {
	return migrate(ctx, globals, database.MigrateUp)
}

type DownCmd struct{}

func (c *DownCmd) Run(ctx context.Context, globals *Globals) error {
	return migrate(ctx, globals, database.MigrateDown)
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	return migrate(ctx, globals, database.MigrateStatus)
}

var cli struct {
	Up     UpCmd     `cmd:"" default:"1" help:"Apply all pending migrations."`
	Down   DownCmd   `cmd:"" help:"Roll back the most recent migration."`
	Status StatusCmd `cmd:"" help:"Print the status of every migration."`
}

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("migrate"),
		kong.Description("Manage the kanban database schema."),
		kong.BindTo(ctx, (*context.Context)(nil)))

	cfg, err := config.Load()
	cmd.FatalIfErrorf(err)

	log := logger.New(logger.Options{Production: cfg.IsProduction()})
	defer func() { _ = log.Sync() }()

	err = cmd.Run(&Globals{Config: cfg, Logger: log})
	cmd.FatalIfErrorf(err)
}

func migrate(ctx context.Context, globals *Globals, command database.MigrateCommand) error {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, database.Config{
		URL:             globals.Config.DatabaseURL,
		MinConns:        1,
		ConnectAttempts: globals.Config.DBConnectTries,
	}, globals.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx, command, globals.Config.MigrationsTable); err != nil {
		return err
	}

	globals.Logger.Info("Migrations completed", zap.String("command", string(command)))
	return nil
}
