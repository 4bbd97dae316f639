package config

import (
	"fmt"
	"strings"
	"time"

	"marketplace/internal/filterstate"
	"marketplace/internal/kvstore"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL  string             `envconfig:"DATABASE_URL"`
	GinMode      string             `envconfig:"GIN_MODE" default:"release"`
	PostgreSQL   PostgreSQLConfig   `envconfig:"PG"`
	Server       ServerConfig       `envconfig:"SERVER"`
	CORS         CORSConfig         `envconfig:"CORS"`
	Redis        RedisConfig        `envconfig:"REDIS"`
	Storage      StorageConfig      `envconfig:"STORAGE"`
	Search       SearchConfig       `envconfig:"SEARCH"`
	Availability AvailabilityConfig `envconfig:"AVAILABILITY"`
	Logging      LoggingConfig      `envconfig:"LOG"`
	RateLimit    RateLimitConfig    `envconfig:"RATE_LIMIT"`
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string
	Host               string `default:"localhost"`
	Port               int    `default:"5432"`
	User               string `default:"postgres"`
	Password           string
	Database           string `default:"marketplace"`
	SSLMode            string `envconfig:"SSLMODE" default:"disable"`
	MaxConnections     int    `split_words:"true" default:"25"`
	MaxIdleConnections int    `split_words:"true" default:"5"`
	EnsureSchema       bool   `split_words:"true" default:"true"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `default:"8080"`
	Host            string        `default:"0.0.0.0"`
	SecureCookies   bool          `split_words:"true" default:"false"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string `split_words:"true" default:"*"`
	AllowedMethods []string `split_words:"true" default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `split_words:"true" default:"Content-Type,Authorization,X-Session-ID"`
}

// RedisConfig holds the Redis connection used by the redis storage
// backend and the rate limiter
type RedisConfig struct {
	URL string
}

// StorageConfig selects where per-session filters and history are kept
type StorageConfig struct {
	Backend    string        `default:"memory"`
	SqlitePath string        `split_words:"true" default:"marketplace.db"`
	TTL        time.Duration `default:"720h"`
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	DefaultLimit    int           `split_words:"true" default:"20"`
	MaxLimit        int           `split_words:"true" default:"100"`
	CandidateBatch  int           `split_words:"true" default:"500"`
	HistoryCap      int           `split_words:"true" default:"20"`
	SuggestionLimit int           `split_words:"true" default:"10"`
	PopularTTL      time.Duration `envconfig:"POPULAR_TTL" default:"5m"`
	GenerationTTL   time.Duration `envconfig:"GENERATION_TTL" default:"30m"`
}

// AvailabilityConfig holds slot generation settings
type AvailabilityConfig struct {
	Timezone           string `default:"America/Sao_Paulo"`
	GranularityMinutes int    `split_words:"true" default:"60"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `default:"info"`
	Format string `default:"json"`
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled  bool          `default:"false"`
	Requests int           `default:"120"`
	Window   time.Duration `default:"1m"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case kvstore.BackendMemory, kvstore.BackendSQLite:
	case kvstore.BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("STORAGE_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND: %s", c.Storage.Backend)
	}

	if c.RateLimit.Enabled {
		if c.Redis.URL == "" {
			return fmt.Errorf("RATE_LIMIT_ENABLED requires REDIS_URL")
		}
		if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate limit requests and window must be positive")
		}
	}

	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("invalid search limits: default %d, max %d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Search.CandidateBatch <= 0 {
		return fmt.Errorf("SEARCH_CANDIDATE_BATCH must be positive")
	}
	if c.Search.HistoryCap <= 0 || c.Search.SuggestionLimit <= 0 {
		return fmt.Errorf("history cap and suggestion limit must be positive")
	}
	if c.Availability.GranularityMinutes <= 0 || c.Availability.GranularityMinutes > 24*60 {
		return fmt.Errorf("invalid AVAILABILITY_GRANULARITY_MINUTES: %d", c.Availability.GranularityMinutes)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Location returns the time zone provider hours are expressed in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Availability.Timezone))
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Granularity returns the default slot length
func (c *Config) Granularity() time.Duration {
	return time.Duration(c.Availability.GranularityMinutes) * time.Minute
}

// KVOptions returns the options for opening the session store. STORAGE_TTL
// applies to persisted filters only; search history never expires.
func (c *Config) KVOptions() kvstore.Options {
	return kvstore.Options{
		Backend:          c.Storage.Backend,
		SQLitePath:       c.Storage.SqlitePath,
		RedisURL:         c.Redis.URL,
		TTL:              c.Storage.TTL,
		ExpiringPrefixes: []string{filterstate.KeyPrefix},
	}
}

// GetServerAddr returns the HTTP listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
