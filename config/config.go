package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: backend API client configuration
//   - session.go: session and progress storage configuration
//   - observability.go: logging and metrics configuration
type AppConfig struct {
	// IsDev enables verbose defaults for local work against a dev backend.
	IsDev bool `env:"DEV" envDefault:"false"`

	API     APIConfig     `envPrefix:"PORTAL_API_"`
	Session SessionConfig `envPrefix:"PORTAL_SESSION_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`

	Log           LogConfig `envPrefix:"LOG_"`
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.API.Sanitize()
	c.Session.Sanitize()
	c.Redis.Sanitize()
	c.Log.Sanitize(c.IsDev)
	c.Observability.Sanitize()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesRedis reports whether any configured store needs a Redis connection.
func (c *AppConfig) UsesRedis() bool {
	return c.Session.Backend == SessionBackendRedis
}
