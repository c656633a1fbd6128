package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server and the migrate command read from the
// environment. A .env file in the working directory is loaded first when present.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogFilePath string `env:"LOG_FILE_PATH"`

	DatabaseURL     string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns      int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns      int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBConnectTries  uint   `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`
	AutoMigrate     bool   `env:"AUTO_MIGRATE" envDefault:"false"`
	MigrationsTable string `env:"MIGRATIONS_TABLE" envDefault:"schema_migrations"`

	AnalyticsEnabled bool          `env:"ANALYTICS_ENABLED" envDefault:"false"`
	AnalyticsTimeout time.Duration `env:"ANALYTICS_TIMEOUT" envDefault:"5s"`
	NatsURL          string        `env:"NATS_URL"`

	OtelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*Config, error) {
	// Missing .env is fine, the process environment is used as is.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
