package config

import (
	"strings"
	"time"
)

const (
	defaultAPIBaseURL = "http://localhost:8000/api/"
	defaultAPITimeout = 10 * time.Second
)

// APIConfig configures the HTTP client talking to the course backend.
type APIConfig struct {
	BaseURL   string        `env:"BASE_URL"   envDefault:"http://localhost:8000/api/"`
	Timeout   time.Duration `env:"TIMEOUT"    envDefault:"10s"`
	UserAgent string        `env:"USER_AGENT" envDefault:"group-platform-portal"`
}

// Sanitize restores defaults for blank or non-positive values and ensures the
// base URL ends with a slash so relative endpoint paths resolve beneath it.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = defaultAPIBaseURL
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultAPITimeout
	}
	c.UserAgent = strings.TrimSpace(c.UserAgent)
}
