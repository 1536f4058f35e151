package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the daylog service. Environment
// variables are parsed from the DAYLOG_ prefix, with an optional .env file
// loaded first. Example: DAYLOG_HTTP_PORT, DAYLOG_DB_DRIVER.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage: "sqlite" or "postgres"
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/daylog.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Directory image uploads are written to
	UploadDir string `envconfig:"UPLOAD_DIR" default:"data/uploads"`

	// Bearer token -> account email map, e.g. "tok1:alice@example.com,tok2:bob@example.com"
	AuthTokens map[string]string `envconfig:"AUTH_TOKENS"`
}

// ResolveDefaults validates driver selection and its required settings.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("DAYLOG_SQLITE_PATH is required with the sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DAYLOG_POSTGRES_DSN is required with the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("DAYLOG_UPLOAD_DIR must not be empty")
	}
	return nil
}

// New creates a Config from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func New() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("DAYLOG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Str("upload_dir", cfg.UploadDir).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Int("auth_tokens", len(cfg.AuthTokens)).
		Msg("configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
