// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor
// principles; the API key may also arrive as a process argument.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration, shared by the MCP server
// and the public viewer.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Cache (Redis). Optional: the viewer reads straight from the
	// database when unset.
	RedisURL string `env:"REDIS_URL"`

	// Base URL the public token is appended to.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"https://www.rapidinvoice.eu/invoice/public"`

	// Logging. The MCP process writes to LogFile because stdout carries
	// the protocol; the viewer logs to stdout.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE" envDefault:"mcp-server.log"`

	// Public viewer settings
	ViewerPort            int `env:"VIEWER_PORT" envDefault:"8080"`
	ViewerReadTimeout     int `env:"VIEWER_READ_TIMEOUT_SECONDS" envDefault:"5"`
	ViewerWriteTimeout    int `env:"VIEWER_WRITE_TIMEOUT_SECONDS" envDefault:"10"`
	ViewerShutdownTimeout int `env:"VIEWER_SHUTDOWN_TIMEOUT_SECONDS" envDefault:"30"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// apiKeyArgPrefix is the process-argument form of the credential.
const apiKeyArgPrefix = "--api_key="

// ResolveAPIKey returns the caller credential: a `--api_key=VALUE`
// process argument wins, the API_KEY environment variable is the
// fallback. Empty means absent; the MCP entrypoint treats that as
// fatal.
func ResolveAPIKey(args []string, getenv func(string) string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, apiKeyArgPrefix) {
			return strings.TrimPrefix(arg, apiKeyArgPrefix)
		}
	}
	return getenv("API_KEY")
}
