package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 720*time.Hour, cfg.Storage.TTL)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Search.MaxLimit)
	assert.Equal(t, 20, cfg.Search.HistoryCap)
	assert.Equal(t, 10, cfg.Search.SuggestionLimit)
	assert.Equal(t, 5*time.Minute, cfg.Search.PopularTTL)
	assert.Equal(t, 30*time.Minute, cfg.Search.GenerationTTL)
	assert.Equal(t, 500, cfg.Search.CandidateBatch)
	assert.Equal(t, time.Hour, cfg.Granularity())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PG_MAX_CONNECTIONS", "7")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("STORAGE_SQLITE_PATH", "/tmp/state.db")
	t.Setenv("SEARCH_POPULAR_TTL", "30s")
	t.Setenv("AVAILABILITY_GRANULARITY_MINUTES", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7, cfg.PostgreSQL.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.Search.PopularTTL)
	assert.Equal(t, 30*time.Minute, cfg.Granularity())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)

	opts := cfg.KVOptions()
	assert.Equal(t, "sqlite", opts.Backend)
	assert.Equal(t, "/tmp/state.db", opts.SQLitePath)
	assert.Equal(t, []string{"filters:"}, opts.ExpiringPrefixes)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "Unknown backend", env: map[string]string{"STORAGE_BACKEND": "etcd"}},
		{name: "Redis backend without url", env: map[string]string{"STORAGE_BACKEND": "redis"}},
		{name: "Rate limit without redis", env: map[string]string{"RATE_LIMIT_ENABLED": "true"}},
		{name: "Max below default", env: map[string]string{"SEARCH_DEFAULT_LIMIT": "50", "SEARCH_MAX_LIMIT": "10"}},
		{name: "Zero candidate batch", env: map[string]string{"SEARCH_CANDIDATE_BATCH": "0"}},
		{name: "Zero history cap", env: map[string]string{"SEARCH_HISTORY_CAP": "0"}},
		{name: "Granularity over a day", env: map[string]string{"AVAILABILITY_GRANULARITY_MINUTES": "1441"}},
		{name: "Unknown timezone", env: map[string]string{"AVAILABILITY_TIMEZONE": "Mars/Olympus"}},
		{name: "Malformed number", env: map[string]string{"SERVER_PORT": "eighty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "marketplace",
		SSLMode:  "disable",
	}}
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=marketplace sslmode=disable", cfg.GetPostgreSQLDSN())

	cfg.PostgreSQL.DSN = "postgres://pg/dsn"
	assert.Equal(t, "postgres://pg/dsn", cfg.GetPostgreSQLDSN())

	cfg.DatabaseURL = "postgres://url/wins"
	assert.Equal(t, "postgres://url/wins", cfg.GetPostgreSQLDSN())
}
