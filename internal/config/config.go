package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the server.
type Config struct {
	// SecretKey is the Stripe secret key used for every provider call.
	SecretKey string `env:"STRIPE_SECRET_KEY,required,notEmpty"`
	// BaseURL is the Stripe API root.
	BaseURL string `env:"STRIPE_API_BASE_URL" envDefault:"https://api.stripe.com"`
	// LogLevel sets the logger level.
	LogLevel string `env:"STRIPE_MCP_LOG_LEVEL" envDefault:"info"`
	// Lang selects message language for templates.
	Lang string `env:"STRIPE_MCP_LANG" envDefault:"en"`
	// ToolTimeout bounds every provider call.
	ToolTimeout time.Duration `env:"STRIPE_MCP_TOOL_TIMEOUT" envDefault:"30s"`
	// RateLimit is the client-side request rate per second (0 disables).
	RateLimit float64 `env:"STRIPE_MCP_RATE_LIMIT" envDefault:"25"`
	// RateBurst is the client-side burst size.
	RateBurst int `env:"STRIPE_MCP_RATE_BURST" envDefault:"25"`
	// Transport selects the server transport ("stdio" or "http").
	Transport string `env:"STRIPE_MCP_TRANSPORT" envDefault:"stdio"`
	// HTTP configures the streamable HTTP transport.
	HTTP HTTPConfig
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"STRIPE_MCP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// Listen is the HTTP listen address.
	Listen string `env:"STRIPE_MCP_HTTP_LISTEN" envDefault:":8080"`
	// Path is the MCP HTTP endpoint path.
	Path string `env:"STRIPE_MCP_HTTP_PATH" envDefault:"/mcp"`
	// Stateless disables session tracking.
	Stateless bool `env:"STRIPE_MCP_HTTP_STATELESS" envDefault:"false"`
	// ReadTimeout limits request read time.
	ReadTimeout time.Duration `env:"STRIPE_MCP_HTTP_READ_TIMEOUT" envDefault:"15s"`
	// IdleTimeout controls idle connections.
	IdleTimeout time.Duration `env:"STRIPE_MCP_HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
