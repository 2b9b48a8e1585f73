//go:build integration

package integration

import (
	"os"
	"strconv"
	"testing"

	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	"github.com/medzoshop/medzo-backend/pkg/config"
	"github.com/stretchr/testify/require"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func newTestPostgresClient(t *testing.T) *postgres.Client {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "medzo_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	}

	client, err := postgres.NewClient(cfg)
	require.NoError(t, err, "Failed to create postgres client")
	return client
}

func runSchema(t *testing.T, client *postgres.Client) {
	t.Helper()

	schemaSQL, err := os.ReadFile("../../scripts/schema.sql")
	require.NoError(t, err)
	_, err = client.DB().Exec(string(schemaSQL))
	require.NoError(t, err)
}
