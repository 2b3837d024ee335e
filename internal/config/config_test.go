package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk_test_123", cfg.SecretKey)
	assert.Equal(t, "https://api.stripe.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.ToolTimeout)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, "/mcp", cfg.HTTP.Path)
	assert.Equal(t, 25, cfg.RateBurst)
	assert.InDelta(t, 25.0, cfg.RateLimit, 0)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_MCP_TOOL_TIMEOUT", "5s")
	t.Setenv("STRIPE_MCP_TRANSPORT", "http")
	t.Setenv("STRIPE_MCP_HTTP_LISTEN", "127.0.0.1:9090")
	t.Setenv("STRIPE_MCP_RATE_LIMIT", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.ToolTimeout)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Listen)
	assert.Zero(t, cfg.RateLimit)
}

func TestLoadRequiresSecretKey(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
}
