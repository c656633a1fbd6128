package main

import (
	"context"
	"errors"
	"kanban/analytics"
	"kanban/config"
	"kanban/database"
	"kanban/handlers"
	"kanban/logger"
	"kanban/telemetry"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := logger.New(logger.Options{FilePath: cfg.LogFilePath, Production: cfg.IsProduction()})
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OtelEnabled, cfg.OtelEndpoint, logger)
	if err != nil {
		logger.Warn("Tracing disabled", zap.Error(err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	// Create context with timeout for initial connection
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, database.Config{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		ConnectAttempts: cfg.DBConnectTries,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, database.MigrateUp, cfg.MigrationsTable); err != nil {
			return err
		}
	}

	sink, err := newAnalyticsSink(ctx, cfg, logger)
	if err != nil {
		return err
	}
	tracker := analytics.NewClient(cfg.AnalyticsEnabled, sink, cfg.AnalyticsTimeout, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := handlers.NewRouter(db, tracker, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := tracker.Close(); err != nil {
		logger.Warn("Analytics sink close failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Warn("Tracer shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
	return nil
}

// newAnalyticsSink picks NATS when NATS_URL is set and the in-process
// watermill channel otherwise. The channel sink gets a consumer that logs
// every event.
func newAnalyticsSink(ctx context.Context, cfg *config.Config, logger *zap.Logger) (analytics.Sink, error) {
	if !cfg.AnalyticsEnabled {
		return nil, nil
	}

	if cfg.NatsURL != "" {
		sink, err := analytics.NewNATSSink(cfg.NatsURL)
		if err != nil {
			logger.Warn("Failed to connect analytics to NATS, using in-process sink", zap.Error(err))
		} else {
			logger.Info("Analytics publishing to NATS", zap.String("url", cfg.NatsURL))
			return sink, nil
		}
	}

	sink := analytics.NewChannelSink(logger)
	if err := analytics.NewConsumer(sink, logger).Consume(ctx); err != nil {
		_ = sink.Close()
		return nil, err
	}
	return sink, nil
}
