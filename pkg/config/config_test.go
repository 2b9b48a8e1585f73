package config_test

import (
	"testing"

	"github.com/medzoshop/medzo-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "medzo", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "mock", cfg.Geolocation.Provider)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t,
		"host=db.internal port=5432 user=postgres password=secret dbname=medzo sslmode=disable",
		cfg.Database.DatabaseDSN(),
	)
}

func TestRedisAddr(t *testing.T) {
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6380", cfg.Redis.RedisAddr())
}
