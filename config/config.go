package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the environment driven configuration of the generator service.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"apigen-backend"`
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins  string        `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:4200"`
	BodyLimitMB     int           `env:"BODY_LIMIT_MB" envDefault:"4"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"60"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	DefinitionsDir  string        `env:"DEFINITIONS_DIR" envDefault:"./db_definitions"`
	StagingDir      string        `env:"STAGING_DIR"`
	ArchiveName     string        `env:"ARCHIVE_NAME" envDefault:"api_gerada.zip"`
	DBDriver        string        `env:"DB_DRIVER" envDefault:"postgres"`
	DBDSN           string        `env:"DB_DSN"`
	JWTSecret       string        `env:"JWT_SECRET_KEY"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Load reads an optional .env file and parses environment variables into
// Config. Variables already present in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if strings.TrimSpace(cfg.StagingDir) == "" {
		cfg.StagingDir = filepath.Join(os.TempDir(), "api_generate")
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	if cfg.BodyLimitMB <= 0 {
		return nil, fmt.Errorf("BODY_LIMIT_MB must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// HistoryEnabled reports whether generations are persisted.
func (c *Config) HistoryEnabled() bool {
	return strings.TrimSpace(c.DBDSN) != ""
}

// AuthEnabled reports whether bearer tokens are required.
func (c *Config) AuthEnabled() bool {
	return strings.TrimSpace(c.JWTSecret) != ""
}
