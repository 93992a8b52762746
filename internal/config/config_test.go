package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DB_DSN", "TELEGRAM_TOKEN", "ENV", "TIMEZONE", "MIGRATIONS_PATH", "LOG_FILE",
		"STORAGE_BACKEND", "AGENCY_ID", "FIREBASE_PROJECT_ID", "FIREBASE_CREDENTIALS_FILE",
		"SESSION_TTL", "REFRESH_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/queue")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
}

func TestFromEnv_Errors(t *testing.T) {
	clearEnv(t)
	_, err := FromEnv()
	assert.ErrorContains(t, err, "DB_DSN")

	t.Setenv("DB_DSN", "postgres://localhost/queue")
	t.Setenv("STORAGE_BACKEND", "firestore")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "FIREBASE_PROJECT_ID")

	t.Setenv("STORAGE_BACKEND", "mongo")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "STORAGE_BACKEND")

	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SESSION_TTL", "soon")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "SESSION_TTL")

	t.Setenv("SESSION_TTL", "")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "TIMEZONE")
}
