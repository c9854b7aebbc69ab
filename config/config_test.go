package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("POS_GATEWAY_URL", "")
	t.Setenv("POS_TOKEN_FILE", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GatewayURL)
	assert.Equal(t, ".pos-token", cfg.TokenFile)
	assert.Equal(t, "test", cfg.GoEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev-secret-change-me", cfg.JWTSecret)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("POS_GATEWAY_URL", "https://gateway.example.com")
	t.Setenv("POS_TOKEN_FILE", "/tmp/pos-token")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.example.com", cfg.GatewayURL)
	assert.Equal(t, "/tmp/pos-token", cfg.TokenFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}

	// No gateway URL: fine in dev mode, an error otherwise
	assert.Error(t, cfg.Validate(false))
	assert.NoError(t, cfg.Validate(true))

	cfg.GatewayURL = "http://localhost:8080"
	assert.NoError(t, cfg.Validate(false))
}

func TestEnvironmentHelpers(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "test"}).IsTest())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{GoEnv: "development"}).IsProduction())
}
