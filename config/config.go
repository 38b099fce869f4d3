package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvDatabaseDSN = "BLOOMPAL_DATABASE_DSN"
	EnvPort        = "BLOOMPAL_PORT"
	EnvLogLevel    = "BLOOMPAL_LOG_LEVEL"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Reminders  RemindersConfig  `yaml:"reminders"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Care       CareConfig       `yaml:"care"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port               int      `yaml:"port" validate:"min=1,max=65535"`
	OwnerHeader        string   `yaml:"owner_header" validate:"required"`
	RateLimitPerSec    float64  `yaml:"rate_limit_per_sec" validate:"gt=0"`
	RateLimitBurst     int      `yaml:"rate_limit_burst" validate:"min=1"`
	CacheTTLSeconds    int      `yaml:"cache_ttl_seconds" validate:"min=0"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" validate:"dive,required"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn" validate:"required"`
	MaxOpenConns           int    `yaml:"max_open_conns" validate:"min=0"`
	MaxIdleConns           int    `yaml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes" validate:"min=0"`
	LogLevel               string `yaml:"log_level" validate:"omitempty,oneof=silent error warn info"`
}

// RemindersConfig controls the periodic watering reminder sweep.
type RemindersConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// WorkerPoolConfig holds the configuration for the reminder worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size" validate:"min=1"`
}

// CareConfig holds defaults applied to plant care records.
type CareConfig struct {
	DefaultNote         string `yaml:"default_note"`
	DefaultIntervalDays int    `yaml:"default_interval_days" validate:"min=1"`
	HistoryPreviewLimit int    `yaml:"history_preview_limit" validate:"min=1"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Load reads the configuration from the given path.
// Values from a .env file and the process environment take precedence over the file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	// A missing .env file is normal outside local development.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		c.Database.DSN = dsn
	}
	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvPort, err)
		}
		c.Server.Port = p
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.OwnerHeader == "" {
		c.Server.OwnerHeader = "X-Owner-ID"
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = 30
	}

	if c.Reminders.IntervalSeconds <= 0 {
		c.Reminders.IntervalSeconds = 300
	}
	c.Reminders.Interval = time.Duration(c.Reminders.IntervalSeconds) * time.Second

	if c.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		c.WorkerPool.Size = 1
	}

	if c.Care.DefaultIntervalDays <= 0 {
		c.Care.DefaultIntervalDays = 7
	}
	if c.Care.HistoryPreviewLimit <= 0 {
		c.Care.HistoryPreviewLimit = 10
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
