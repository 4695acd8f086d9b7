package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE", "LOG_LEVEL", "LOG_DEVELOPMENT", "SEED", "SEED_FILE", "SUBSCRIPTION_BUFFER", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDevelopment)
	assert.True(t, cfg.Seed)
	assert.Empty(t, cfg.SeedFile)
	assert.Equal(t, 16, cfg.SubscriptionBuffer)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", StorageSQLite)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("SEED", "false")
	t.Setenv("SEED_FILE", "fixtures/demo.yaml")
	t.Setenv("SUBSCRIPTION_BUFFER", "64")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://example.com,")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDevelopment)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "fixtures/demo.yaml", cfg.SeedFile)
	assert.Equal(t, 64, cfg.SubscriptionBuffer)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORSOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SUBSCRIPTION_BUFFER", "lots")
	t.Setenv("SEED", "maybe")

	cfg := Load()
	assert.Equal(t, 16, cfg.SubscriptionBuffer)
	assert.True(t, cfg.Seed)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("BLOGQL_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("BLOGQL_TEST_KEY", "fallback"))

	t.Setenv("BLOGQL_TEST_KEY", "")
	assert.Equal(t, "fallback", GetEnv("BLOGQL_TEST_KEY", "fallback"))
}
