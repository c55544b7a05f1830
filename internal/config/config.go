package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultRetryInterval is used when RETRY_CONNECTION_SECONDS is absent or not a positive integer.
const DefaultRetryInterval = 5 * time.Second

type Config struct {
	Host     string `env:"AMBULANCE_API_MONGODB_HOST" envDefault:"localhost"`
	Port     string `env:"AMBULANCE_API_MONGODB_PORT" envDefault:"27017"`
	Username string `env:"AMBULANCE_API_MONGODB_USERNAME"`
	Password string `env:"AMBULANCE_API_MONGODB_PASSWORD"`

	Database   string `env:"AMBULANCE_API_MONGODB_DATABASE" envDefault:"ambulance-virtual-patient-db"`
	Collection string `env:"AMBULANCE_API_MONGODB_COLLECTION" envDefault:"virtual-patients"`

	// Kept as a string so a malformed value degrades to the default
	// instead of failing Load.
	RetrySeconds   string `env:"RETRY_CONNECTION_SECONDS" envDefault:"5"`
	TimeoutSeconds int    `env:"AMBULANCE_API_MONGODB_TIMEOUT_SECONDS" envDefault:"10"`

	FailOnWriteError bool   `env:"INIT_DB_FAIL_ON_WRITE_ERROR" envDefault:"false"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile          string
	LogLevel         string
	Host             string
	Port             string
	Database         string
	Collection       string
	FailOnWriteError bool
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.Host != "" {
		cfg.Host = overrides.Host
	}
	if overrides.Port != "" {
		cfg.Port = overrides.Port
	}
	if overrides.Database != "" {
		cfg.Database = overrides.Database
	}
	if overrides.Collection != "" {
		cfg.Collection = overrides.Collection
	}
	if overrides.FailOnWriteError {
		cfg.FailOnWriteError = true
	}

	return cfg, nil
}

// RetryInterval returns the pause between connection attempts.
func (c *Config) RetryInterval() time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(c.RetrySeconds))
	if err != nil || n <= 0 {
		return DefaultRetryInterval
	}
	return time.Duration(n) * time.Second
}

// Timeout bounds a single connect attempt and each database command.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
