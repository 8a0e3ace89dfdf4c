package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "7420", cfg.HubPort)
	assert.Equal(t, "http://localhost:3000", cfg.BackendURL)
	assert.Equal(t, "", cfg.NATSURL, "journal disabled by default")
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HUB_PORT", "9000")
	t.Setenv("BACKEND_URL", "https://backend.example.com")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.HubPort)
	assert.Equal(t, "https://backend.example.com", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "many")
	t.Setenv("BACKEND_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
}
