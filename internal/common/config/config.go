// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Sessions   SessionsConfig   `mapstructure:"sessions"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
	Submission SubmissionConfig `mapstructure:"submission"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	OpsPort      int    `mapstructure:"ops_port"`      // health + metrics listener
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // milliseconds

	// TrustedProxies lists the IPs or CIDR blocks whose X-Forwarded-For is
	// honored when resolving the client address. Empty means RemoteAddr only.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// Addr returns the host:port the site listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// OpsAddr returns the host:port for /health, /ready and /metrics.
func (s ServerConfig) OpsAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.OpsPort)
}

// SessionsConfig selects where assessment wizard sessions live between requests.
type SessionsConfig struct {
	Backend    string      `mapstructure:"backend"` // "memory" or "redis"
	TTLSeconds int         `mapstructure:"ttl_seconds"`
	CookieName string      `mapstructure:"cookie_name"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// TTL returns the session time-to-live.
func (s SessionsConfig) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AssessmentConfig holds wizard behavior switches.
type AssessmentConfig struct {
	// RequireStepFields blocks Advance while fields of the current step are empty.
	RequireStepFields bool `mapstructure:"require_step_fields"`
}

// SubmissionConfig controls the simulated booking/contact submission.
type SubmissionConfig struct {
	DelayMS int `mapstructure:"delay_ms"`
}

// Delay returns the simulated submission delay.
func (s SubmissionConfig) Delay() time.Duration {
	return GetDuration(s.DelayMS)
}

// RateLimitConfig is applied per client address on form POST routes.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
