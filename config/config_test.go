package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT", "CORS_ALLOWED_ORIGINS",
		"DB_DRIVER", "DB_DSN", "DB_HOST", "DB_PORT", "SQLITE_PATH",
		"REDIS_ADDR", "REDIS_CHANNEL", "APP_ENV", "LOG_LEVEL", "SERVICE_NAME", "STATS_SCHEDULE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "todos:events", cfg.Redis.Channel)
	assert.Equal(t, "todo-service", cfg.App.ServiceName)
	assert.Equal(t, "@every 30s", cfg.App.StatsSchedule)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.Equal(t, 5432, cfg.Database.Port, "invalid integers fall back to the default")
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080", RequestTimeout: time.Second},
			Database: DatabaseConfig{Driver: DriverPostgres, Host: "localhost"},
		}
	}

	t.Run("accepts a postgres host", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = "mysql"
		assert.ErrorContains(t, cfg.Validate(), "unsupported DB_DRIVER")
	})

	t.Run("rejects postgres without dsn or host", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Host = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects sqlite without path", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = DriverSQLite
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive request timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Server.RequestTimeout = 0
		assert.ErrorContains(t, cfg.Validate(), "REQUEST_TIMEOUT")
	})

	t.Run("requires channel when redis is configured", func(t *testing.T) {
		cfg := valid()
		cfg.Redis.Addr = "localhost:6379"
		assert.ErrorContains(t, cfg.Validate(), "REDIS_CHANNEL")
	})

	t.Run("rejects malformed stats schedule", func(t *testing.T) {
		cfg := valid()
		cfg.App.StatsSchedule = "every now and then"
		assert.ErrorContains(t, cfg.Validate(), "STATS_SCHEDULE")
	})

	t.Run("accepts disabled stats schedule", func(t *testing.T) {
		cfg := valid()
		cfg.App.StatsSchedule = "off"
		assert.NoError(t, cfg.Validate())
	})
}
