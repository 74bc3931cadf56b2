package config

import (
	"os"
	"path/filepath"
	"strings"
)

// SessionBackend selects where the durable session scope lives.
type SessionBackend string

const (
	// SessionBackendFile keeps the durable scope in a JSON file under Dir.
	SessionBackendFile SessionBackend = "file"
	// SessionBackendRedis keeps the durable scope in Redis.
	SessionBackendRedis SessionBackend = "redis"
)

// EphemeralBackend selects where the ephemeral session scope lives.
type EphemeralBackend string

const (
	// EphemeralMemory forgets the session when the process exits.
	EphemeralMemory EphemeralBackend = "memory"
	// EphemeralShell keeps the session in a per-shell temp directory keyed by the parent PID.
	EphemeralShell EphemeralBackend = "shell"
)

const (
	defaultSessionDirName = ".portal"
	defaultSessionProfile = "default"
)

// SessionConfig configures session and progress persistence.
type SessionConfig struct {
	Backend   SessionBackend   `env:"BACKEND"   envDefault:"file"`
	Ephemeral EphemeralBackend `env:"EPHEMERAL" envDefault:"shell"`
	Dir       string           `env:"DIR"`
	Profile   string           `env:"PROFILE"   envDefault:"default"`
}

// Sanitize lower-cases the backend names, falls back to safe defaults for unknown values
// and resolves Dir to $HOME/.portal when unset.
func (c *SessionConfig) Sanitize() {
	switch SessionBackend(strings.ToLower(strings.TrimSpace(string(c.Backend)))) {
	case SessionBackendRedis:
		c.Backend = SessionBackendRedis
	default:
		c.Backend = SessionBackendFile
	}

	switch EphemeralBackend(strings.ToLower(strings.TrimSpace(string(c.Ephemeral)))) {
	case EphemeralMemory:
		c.Ephemeral = EphemeralMemory
	default:
		c.Ephemeral = EphemeralShell
	}

	c.Profile = strings.TrimSpace(c.Profile)
	if c.Profile == "" {
		c.Profile = defaultSessionProfile
	}

	c.Dir = strings.TrimSpace(c.Dir)
	if c.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Dir = filepath.Join(home, defaultSessionDirName)
		} else {
			c.Dir = filepath.Join(os.TempDir(), defaultSessionDirName)
		}
	}
	c.Dir = filepath.Join(c.Dir, c.Profile)
}

// ProgressDir is where progress documents are written for the file backend.
func (c *SessionConfig) ProgressDir() string {
	return filepath.Join(c.Dir, "progress")
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Sanitize trims the URI and clamps DB to a valid index.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.DB < 0 {
		c.DB = 0
	}
}
